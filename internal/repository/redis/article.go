package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/repository/cache"
)

const (
	KeyArticles = "article:%s"

	// 物理过期时间是逻辑过期的倍数, 过期后读到的旧值仍可先返回再异步重建
	physicalTTLFactor = 3
)

type articleCache struct {
	client *redis.Client
}

var _ domain.ArticleCache = (*articleCache)(nil)

func NewArticleCache(client *redis.Client) *articleCache {
	return &articleCache{
		client,
	}
}

func articleKey(id string) string {
	return fmt.Sprintf(KeyArticles, id)
}

func (c *articleCache) GetArticle(ctx context.Context, id string) (res domain.Article, expired bool, err error) {
	data, err := c.client.Get(ctx, articleKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Article{}, false, domain.ErrCacheMiss
	} else if err != nil {
		return domain.Article{}, false, err
	}

	var wrapped cache.DataWithLogicalExpire[domain.Article]
	if err = json.Unmarshal(data, &wrapped); err != nil {
		return domain.Article{}, false, fmt.Errorf("decode cached article %s: %w", id, err)
	}
	return wrapped.Data, wrapped.IsLogicalExpired(), nil
}

func (c *articleCache) SetArticle(ctx context.Context, ar *domain.Article, ttl time.Duration) error {
	data, err := json.Marshal(cache.NewDataWithLogicalExpire(*ar, ttl))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, articleKey(ar.ID), data, physicalTTLFactor*ttl).Err()
}

func (c *articleCache) DeleteArticle(ctx context.Context, id string) error {
	return c.client.Del(ctx, articleKey(id)).Err()
}
