package domain

import (
	"context"
	"slices"
	"time"
)

// Article is representing the Article data struct
type Article struct {
	ID        string    // Unique identifier, generated by the store
	Title     string    // Article title
	Content   string    // Article body content
	Image     string    // Public URL of the attached image, if any
	Author    string    // Display name of the creator, fixed at creation
	PostedBy  string    // User ID of the creator, used for ownership checks
	Comments  []Comment // Append-only, in append order
	Likes     []string  // User IDs, each at most once
	CreatedAt time.Time // Creation timestamp
	UpdatedAt time.Time // Last update timestamp
}

// LikedBy reports whether userID is in the likes set.
func (a *Article) LikedBy(userID string) bool {
	return slices.Contains(a.Likes, userID)
}

// CommentByID returns the comment with the given id, if present.
func (a *Article) CommentByID(id string) (Comment, bool) {
	for i := range a.Comments {
		if a.Comments[i].ID == id {
			return a.Comments[i], true
		}
	}
	return Comment{}, false
}

// ArticleRepository defines the contract for article data persistence.
// It is implemented by the storage drivers (mongo, mysql) and by the
// caching decorator in internal/repository.
type ArticleRepository interface {
	// Fetch returns every article, newest first. Never returns a nil slice on success.
	Fetch(ctx context.Context) ([]Article, error)

	// FetchByAuthor returns the articles whose Author equals author, newest first.
	FetchByAuthor(ctx context.Context, author string) ([]Article, error)

	// GetByID retrieves a single article by its ID.
	// Returns ErrNotFound if the article doesn't exist or the ID is malformed.
	GetByID(ctx context.Context, id string) (Article, error)

	// Store creates a new article and backfills ID, CreatedAt and UpdatedAt.
	Store(ctx context.Context, a *Article) error

	// Update persists Title and Content (and UpdatedAt) of ar. Nothing else is written.
	// Returns ErrNotFound if the article doesn't exist.
	Update(ctx context.Context, ar *Article) error

	// PushComment atomically appends c to the article's comments and backfills
	// c.ID and c.CreatedAt. Returns ErrNotFound if the article doesn't exist.
	PushComment(ctx context.Context, articleID string, c *Comment) error

	// AddLike adds userID to the likes set if absent and returns the article after the change.
	AddLike(ctx context.Context, articleID, userID string) (Article, error)

	// RemoveLike removes userID from the likes set if present and returns the article after the change.
	RemoveLike(ctx context.Context, articleID, userID string) (Article, error)

	// FetchIDs returns up to limit article IDs greater than cursor, in ascending order.
	// An empty cursor starts from the beginning.
	FetchIDs(ctx context.Context, cursor string, limit int64) ([]string, error)
}

type ArticleCache interface {
	// GetArticle returns the cached article and whether its logical expiry has passed.
	// Returns ErrCacheMiss when nothing is cached.
	GetArticle(ctx context.Context, id string) (res Article, expired bool, err error)
	SetArticle(ctx context.Context, ar *Article, ttl time.Duration) error
	DeleteArticle(ctx context.Context, id string) error
}

type ArticleUsecase interface {
	Fetch(ctx context.Context) ([]Article, error)
	FetchByAuthor(ctx context.Context, author string) ([]Article, error)
	FetchOwn(ctx context.Context, userID string) ([]Article, error)
	GetByID(ctx context.Context, id string) (Article, error)
	Store(ctx context.Context, userID string, ar *Article, att *Attachment) error
	Update(ctx context.Context, userID, id, title, content string) (Article, error)
	AddLike(ctx context.Context, userID, articleID string) (Article, []Article, error)
	RemoveLike(ctx context.Context, userID, articleID string) (Article, []Article, error)
	InitBloomFilter(ctx context.Context) error
}

type bypassCacheKey struct{}

// WithoutCache marks ctx so that a caching ArticleRepository reads straight from the store.
// Use it for read-your-write lookups right after a mutation.
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey{}, true)
}

// CacheBypassed reports whether ctx was marked by WithoutCache.
func CacheBypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassCacheKey{}).(bool)
	return v
}
