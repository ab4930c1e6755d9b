package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/go-article-service/domain"
)

// CommentUsecase is a mock type for the CommentUsecase type
type CommentUsecase struct {
	mock.Mock
}

func (_m *CommentUsecase) Create(ctx context.Context, userID, articleID, text string) (domain.Article, error) {
	ret := _m.Called(ctx, userID, articleID, text)
	return ret.Get(0).(domain.Article), ret.Error(1)
}
