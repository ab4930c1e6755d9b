package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/go-article-service/domain"
)

// UploadGateway is a mock type for the UploadGateway type
type UploadGateway struct {
	mock.Mock
}

func (_m *UploadGateway) Upload(ctx context.Context, att domain.Attachment) (string, error) {
	ret := _m.Called(ctx, att)
	return ret.String(0), ret.Error(1)
}
