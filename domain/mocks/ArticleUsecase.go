package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/go-article-service/domain"
)

// ArticleUsecase is a mock type for the ArticleUsecase type
type ArticleUsecase struct {
	mock.Mock
}

func articles(v any) []domain.Article {
	if v == nil {
		return nil
	}
	return v.([]domain.Article)
}

func (_m *ArticleUsecase) Fetch(ctx context.Context) ([]domain.Article, error) {
	ret := _m.Called(ctx)
	return articles(ret.Get(0)), ret.Error(1)
}

func (_m *ArticleUsecase) FetchByAuthor(ctx context.Context, author string) ([]domain.Article, error) {
	ret := _m.Called(ctx, author)
	return articles(ret.Get(0)), ret.Error(1)
}

func (_m *ArticleUsecase) FetchOwn(ctx context.Context, userID string) ([]domain.Article, error) {
	ret := _m.Called(ctx, userID)
	return articles(ret.Get(0)), ret.Error(1)
}

func (_m *ArticleUsecase) GetByID(ctx context.Context, id string) (domain.Article, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Article), ret.Error(1)
}

func (_m *ArticleUsecase) Store(ctx context.Context, userID string, ar *domain.Article, att *domain.Attachment) error {
	ret := _m.Called(ctx, userID, ar, att)
	return ret.Error(0)
}

func (_m *ArticleUsecase) Update(ctx context.Context, userID, id, title, content string) (domain.Article, error) {
	ret := _m.Called(ctx, userID, id, title, content)
	return ret.Get(0).(domain.Article), ret.Error(1)
}

func (_m *ArticleUsecase) AddLike(ctx context.Context, userID, articleID string) (domain.Article, []domain.Article, error) {
	ret := _m.Called(ctx, userID, articleID)
	return ret.Get(0).(domain.Article), articles(ret.Get(1)), ret.Error(2)
}

func (_m *ArticleUsecase) RemoveLike(ctx context.Context, userID, articleID string) (domain.Article, []domain.Article, error) {
	ret := _m.Called(ctx, userID, articleID)
	return ret.Get(0).(domain.Article), articles(ret.Get(1)), ret.Error(2)
}

func (_m *ArticleUsecase) InitBloomFilter(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}
