package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/go-article-service/domain"
)

// UserRepository is a mock type for the UserRepository type
type UserRepository struct {
	mock.Mock
}

func (_m *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.User), ret.Error(1)
}

func (_m *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	ret := _m.Called(ctx, ids)
	var r0 []domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.User)
	}
	return r0, ret.Error(1)
}
