package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/repository/cache"
)

func cachedPayload(t *testing.T, ar domain.Article, ttl time.Duration) string {
	t.Helper()
	b, err := json.Marshal(cache.NewDataWithLogicalExpire(ar, ttl))
	require.NoError(t, err)
	return string(b)
}

func TestGetArticle(t *testing.T) {
	ctx := context.Background()
	ar := domain.Article{
		ID:       "1",
		Title:    "T1",
		Author:   "Alice",
		PostedBy: "u1",
		Comments: []domain.Comment{{ID: "c1", Text: "hi", PostedBy: "u2"}},
		Likes:    []string{"u2"},
	}

	t.Run("miss", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet("article:1").RedisNil()

		_, _, err := NewArticleCache(db).GetArticle(ctx, "1")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fresh hit", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet("article:1").SetVal(cachedPayload(t, ar, time.Minute))

		got, expired, err := NewArticleCache(db).GetArticle(ctx, "1")
		require.NoError(t, err)
		assert.False(t, expired)
		assert.Equal(t, "T1", got.Title)
		assert.Equal(t, []string{"u2"}, got.Likes)
		require.Len(t, got.Comments, 1)
		assert.Equal(t, "hi", got.Comments[0].Text)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("logically expired", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet("article:1").SetVal(cachedPayload(t, ar, -time.Second))

		got, expired, err := NewArticleCache(db).GetArticle(ctx, "1")
		require.NoError(t, err)
		assert.True(t, expired)
		assert.Equal(t, "1", got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet("article:1").SetErr(errors.New("connection refused"))

		_, _, err := NewArticleCache(db).GetArticle(ctx, "1")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet("article:1").SetVal("{not json")

		_, _, err := NewArticleCache(db).GetArticle(ctx, "1")
		assert.Error(t, err)
	})
}

func TestSetAndDeleteArticle(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()

	mock.Regexp().ExpectSet("article:7", `.*`, physicalTTLFactor*time.Minute).SetVal("OK")
	mock.ExpectDel("article:7").SetVal(1)

	c := NewArticleCache(db)
	require.NoError(t, c.SetArticle(ctx, &domain.Article{ID: "7", Title: "T"}, time.Minute))
	require.NoError(t, c.DeleteArticle(ctx, "7"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
