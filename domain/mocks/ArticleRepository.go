package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/go-article-service/domain"
)

// ArticleRepository is a mock type for the ArticleRepository type
type ArticleRepository struct {
	mock.Mock
}

func (_m *ArticleRepository) Fetch(ctx context.Context) ([]domain.Article, error) {
	ret := _m.Called(ctx)
	var r0 []domain.Article
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Article)
	}
	return r0, ret.Error(1)
}

func (_m *ArticleRepository) FetchByAuthor(ctx context.Context, author string) ([]domain.Article, error) {
	ret := _m.Called(ctx, author)
	var r0 []domain.Article
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Article)
	}
	return r0, ret.Error(1)
}

func (_m *ArticleRepository) GetByID(ctx context.Context, id string) (domain.Article, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Article), ret.Error(1)
}

func (_m *ArticleRepository) Store(ctx context.Context, a *domain.Article) error {
	ret := _m.Called(ctx, a)
	return ret.Error(0)
}

func (_m *ArticleRepository) Update(ctx context.Context, ar *domain.Article) error {
	ret := _m.Called(ctx, ar)
	return ret.Error(0)
}

func (_m *ArticleRepository) PushComment(ctx context.Context, articleID string, c *domain.Comment) error {
	ret := _m.Called(ctx, articleID, c)
	return ret.Error(0)
}

func (_m *ArticleRepository) AddLike(ctx context.Context, articleID, userID string) (domain.Article, error) {
	ret := _m.Called(ctx, articleID, userID)
	return ret.Get(0).(domain.Article), ret.Error(1)
}

func (_m *ArticleRepository) RemoveLike(ctx context.Context, articleID, userID string) (domain.Article, error) {
	ret := _m.Called(ctx, articleID, userID)
	return ret.Get(0).(domain.Article), ret.Error(1)
}

func (_m *ArticleRepository) FetchIDs(ctx context.Context, cursor string, limit int64) ([]string, error) {
	ret := _m.Called(ctx, cursor, limit)
	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}
