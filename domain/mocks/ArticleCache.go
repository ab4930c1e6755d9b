package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/go-article-service/domain"
)

// ArticleCache is a mock type for the ArticleCache type
type ArticleCache struct {
	mock.Mock
}

func (_m *ArticleCache) GetArticle(ctx context.Context, id string) (domain.Article, bool, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Article), ret.Bool(1), ret.Error(2)
}

func (_m *ArticleCache) SetArticle(ctx context.Context, ar *domain.Article, ttl time.Duration) error {
	ret := _m.Called(ctx, ar, ttl)
	return ret.Error(0)
}

func (_m *ArticleCache) DeleteArticle(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}
