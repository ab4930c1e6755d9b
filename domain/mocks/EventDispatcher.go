package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/go-article-service/domain"
)

// EventDispatcher is a mock type for the EventDispatcher type
type EventDispatcher struct {
	mock.Mock
}

func (_m *EventDispatcher) Start(ctx context.Context) {
	_m.Called(ctx)
}

func (_m *EventDispatcher) Send(ev domain.Event) bool {
	ret := _m.Called(ev)
	return ret.Bool(0)
}
