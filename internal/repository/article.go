package repository

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/metrics"
)

// articleRepository 协调层，协调缓存和数据库
type articleRepository struct {
	db            domain.ArticleRepository
	cache         domain.ArticleCache
	bloom         domain.BloomRepository
	ttl           time.Duration
	rebuildGroup  singleflight.Group
	mu            sync.Mutex
	rebuildingMap map[string]bool // 正在重建的文章ID

	// writeGens 按ID分桶的写入计数. 回源期间计数变化说明读到的快照可能已过期, 不回填缓存
	writeGens [writeGenBuckets]atomic.Uint64
}

const writeGenBuckets = 256

var _ domain.ArticleRepository = (*articleRepository)(nil)

// NewArticleRepository 创建协调层repository. bloom may be nil; it is wrapped with NewBloomGuard.
func NewArticleRepository(db domain.ArticleRepository, cache domain.ArticleCache, bloom domain.BloomRepository, ttl time.Duration) *articleRepository {
	if bloom != nil {
		bloom = NewBloomGuard(bloom)
	}
	return &articleRepository{
		db:            db,
		cache:         cache,
		bloom:         bloom,
		ttl:           ttl,
		rebuildingMap: make(map[string]bool),
	}
}

// Fetch 列表不走缓存, 评论和点赞变化频繁
func (r *articleRepository) Fetch(ctx context.Context) ([]domain.Article, error) {
	return r.db.Fetch(ctx)
}

func (r *articleRepository) FetchByAuthor(ctx context.Context, author string) ([]domain.Article, error) {
	return r.db.FetchByAuthor(ctx, author)
}

// GetByID 根据ID获取文章，使用逻辑过期策略避免缓存击穿
func (r *articleRepository) GetByID(ctx context.Context, id string) (domain.Article, error) {
	if domain.CacheBypassed(ctx) {
		return r.db.GetByID(ctx, id)
	}

	// 0. 布隆过滤器判定一定不存在的ID直接返回
	if r.bloom != nil {
		ok, err := r.bloom.Exists(ctx, id)
		if err != nil {
			logrus.Warnf("bloom filter lookup failed for article %s: %v", id, err)
		} else if !ok {
			metrics.RecordCacheLookup(metrics.CacheBloomReject)
			return domain.Article{}, domain.ErrNotFound
		}
	}

	// 1. 先从缓存获取
	article, expired, err := r.cache.GetArticle(ctx, id)
	if err == nil {
		if expired {
			metrics.RecordCacheLookup(metrics.CacheStale)
			go r.rebuildArticleCache(context.Background(), id)
		} else {
			metrics.RecordCacheLookup(metrics.CacheHit)
		}
		return article, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("article cache read failed for %s: %v", id, err)
	}
	metrics.RecordCacheLookup(metrics.CacheMiss)

	// 2. 缓存未命中，使用singleflight避免缓存击穿
	result, err, _ := r.rebuildGroup.Do(loadKey(id), func() (any, error) {
		gen := r.writeGen(id).Load()
		art, err := r.db.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := r.fill(ctx, id, &art, gen); err != nil {
			logrus.Warnf("failed to cache article %s: %v", id, err)
		}
		return art, nil
	})
	if err != nil {
		return domain.Article{}, err
	}

	return result.(domain.Article), nil
}

// Store 创建文章并登记到布隆过滤器
func (r *articleRepository) Store(ctx context.Context, a *domain.Article) error {
	if err := r.db.Store(ctx, a); err != nil {
		return err
	}
	// 文章已落库, 请求取消也要登记
	if r.bloom != nil {
		if err := r.bloom.Add(context.WithoutCancel(ctx), a.ID); err != nil {
			logrus.Errorf("failed to add article %s to bloom filter: %v", a.ID, err)
		}
	}
	return nil
}

// Update 更新文章
func (r *articleRepository) Update(ctx context.Context, ar *domain.Article) error {
	if err := r.db.Update(ctx, ar); err != nil {
		return err
	}
	r.invalidate(ctx, ar.ID)
	return nil
}

func (r *articleRepository) PushComment(ctx context.Context, articleID string, c *domain.Comment) error {
	if err := r.db.PushComment(ctx, articleID, c); err != nil {
		return err
	}
	r.invalidate(ctx, articleID)
	return nil
}

func (r *articleRepository) AddLike(ctx context.Context, articleID, userID string) (domain.Article, error) {
	ar, err := r.db.AddLike(ctx, articleID, userID)
	if err != nil {
		return domain.Article{}, err
	}
	r.invalidate(ctx, articleID)
	return ar, nil
}

func (r *articleRepository) RemoveLike(ctx context.Context, articleID, userID string) (domain.Article, error) {
	ar, err := r.db.RemoveLike(ctx, articleID, userID)
	if err != nil {
		return domain.Article{}, err
	}
	r.invalidate(ctx, articleID)
	return ar, nil
}

// FetchIDs 获取文章ID列表
func (r *articleRepository) FetchIDs(ctx context.Context, cursor string, limit int64) ([]string, error) {
	return r.db.FetchIDs(ctx, cursor, limit)
}

// invalidate 写操作成功后同步删除缓存, 失败只记录日志.
// 先递增写入计数, 正在回源的加载者据此放弃回填; 之后的读取不再合并到旧的 singleflight 调用
func (r *articleRepository) invalidate(ctx context.Context, id string) {
	r.writeGen(id).Add(1)
	r.rebuildGroup.Forget(loadKey(id))
	if err := r.cache.DeleteArticle(ctx, id); err != nil {
		logrus.Errorf("failed to invalidate cached article %s: %v", id, err)
	}
}

func loadKey(id string) string {
	return "article:" + id
}

func (r *articleRepository) writeGen(id string) *atomic.Uint64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &r.writeGens[h.Sum32()%writeGenBuckets]
}

// fill 回填缓存. gen 是回源前读到的写入计数; 写入后再检查一次,
// 与 invalidate 交错时删掉刚写入的旧快照
func (r *articleRepository) fill(ctx context.Context, id string, ar *domain.Article, gen uint64) error {
	g := r.writeGen(id)
	if g.Load() != gen {
		return nil
	}
	if err := r.cache.SetArticle(ctx, ar, r.ttl); err != nil {
		return err
	}
	if g.Load() != gen {
		return r.cache.DeleteArticle(ctx, id)
	}
	return nil
}

// rebuildArticleCache 异步重建文章缓存
func (r *articleRepository) rebuildArticleCache(ctx context.Context, id string) {
	// 检查是否已经在重建中
	r.mu.Lock()
	if r.rebuildingMap[id] {
		r.mu.Unlock()
		return
	}
	r.rebuildingMap[id] = true
	r.mu.Unlock()

	// 完成后清除标记
	defer func() {
		r.mu.Lock()
		delete(r.rebuildingMap, id)
		r.mu.Unlock()
	}()

	// 使用singleflight避免并发重建
	_, err, _ := r.rebuildGroup.Do("rebuild:"+id, func() (any, error) {
		gen := r.writeGen(id).Load()
		article, err := r.db.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// 文章不存在，删除缓存
				_ = r.cache.DeleteArticle(ctx, id)
			}
			return nil, err
		}

		return nil, r.fill(ctx, id, &article, gen)
	})

	if err != nil {
		logrus.Errorf("rebuildArticleCache failed for id %s: %v", id, err)
	}
}
