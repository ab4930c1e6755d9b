package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/go-article-service/domain/mocks"
)

func fastBloomRetry(t *testing.T) {
	t.Helper()
	old := bloomRetryDelay
	bloomRetryDelay = time.Millisecond
	t.Cleanup(func() { bloomRetryDelay = old })
}

func TestBloomGuard(t *testing.T) {
	ctx := context.Background()
	fastBloomRetry(t)

	t.Run("passes lookups through while healthy", func(t *testing.T) {
		inner := new(mocks.BloomRepository)
		inner.On("Exists", mock.Anything, "a9").Return(false, nil).Once()

		g := NewBloomGuard(inner)
		ok, err := g.Exists(ctx, "a9")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, g.Degraded())
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		inner := new(mocks.BloomRepository)
		inner.On("Add", mock.Anything, "a1").Return(errors.New("redis: i/o timeout")).Once()
		inner.On("Add", mock.Anything, "a1").Return(nil).Once()

		g := NewBloomGuard(inner)
		require.NoError(t, g.Add(ctx, "a1"))
		assert.False(t, g.Degraded())
		inner.AssertExpectations(t)
	})

	t.Run("lost write disables negative lookups", func(t *testing.T) {
		inner := new(mocks.BloomRepository)
		inner.On("BulkAdd", mock.Anything, []string{"a1", "a2"}).Return(errors.New("redis: i/o timeout")).Times(bloomAddAttempts)

		g := NewBloomGuard(inner)
		assert.Error(t, g.BulkAdd(ctx, []string{"a1", "a2"}))
		assert.True(t, g.Degraded())

		ok, err := g.Exists(ctx, "a2")
		require.NoError(t, err)
		assert.True(t, ok)
		inner.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		inner := new(mocks.BloomRepository)
		inner.On("Add", mock.Anything, "a1").Return(context.Canceled).Once()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		g := NewBloomGuard(inner)
		assert.Error(t, g.Add(cctx, "a1"))
		assert.True(t, g.Degraded())
		inner.AssertExpectations(t)
	})

	t.Run("wrapping is idempotent", func(t *testing.T) {
		g := NewBloomGuard(new(mocks.BloomRepository))
		assert.Same(t, g, NewBloomGuard(g))
	})
}
