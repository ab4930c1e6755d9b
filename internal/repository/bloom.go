package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-article-service/domain"
)

const bloomAddAttempts = 3

var bloomRetryDelay = 50 * time.Millisecond

// bloomGuard 包装布隆过滤器. 写入重试仍失败后进入降级状态:
// 过滤器里可能缺少已存在的ID, 之后 Exists 一律返回 true, 由存储层判断, 直到进程重启重新预热
type bloomGuard struct {
	domain.BloomRepository
	degraded atomic.Bool
}

var _ domain.BloomRepository = (*bloomGuard)(nil)

// NewBloomGuard wraps b. Share the returned value between every user of the filter.
func NewBloomGuard(b domain.BloomRepository) *bloomGuard {
	if g, ok := b.(*bloomGuard); ok {
		return g
	}
	return &bloomGuard{BloomRepository: b}
}

func (g *bloomGuard) Add(ctx context.Context, id string) error {
	return g.write(ctx, func() error { return g.BloomRepository.Add(ctx, id) })
}

func (g *bloomGuard) BulkAdd(ctx context.Context, ids []string) error {
	return g.write(ctx, func() error { return g.BloomRepository.BulkAdd(ctx, ids) })
}

func (g *bloomGuard) Exists(ctx context.Context, id string) (bool, error) {
	if g.degraded.Load() {
		return true, nil
	}
	return g.BloomRepository.Exists(ctx, id)
}

// Degraded reports whether a write was lost.
func (g *bloomGuard) Degraded() bool {
	return g.degraded.Load()
}

func (g *bloomGuard) write(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == bloomAddAttempts || ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(bloomRetryDelay * time.Duration(attempt)):
		}
	}

	if !g.degraded.Swap(true) {
		logrus.Errorf("bloom filter write failed, negative lookups disabled until restart: %v", err)
	}
	return err
}
