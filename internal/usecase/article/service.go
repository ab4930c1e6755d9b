package article

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-article-service/domain"
)

// bloomBatchSize 预热布隆过滤器时每批读取的ID数量
const bloomBatchSize = 1000

type Service struct {
	articleRepo  domain.ArticleRepository
	userRepo     domain.UserRepository
	uploader     domain.UploadGateway
	dispatcher   domain.EventDispatcher
	bloomRepo    domain.BloomRepository
	requireImage bool
}

var _ domain.ArticleUsecase = (*Service)(nil)

// NewService will create a new article service object.
// bloomRepo may be nil, in which case InitBloomFilter is a no-op.
func NewService(
	a domain.ArticleRepository,
	u domain.UserRepository,
	up domain.UploadGateway,
	d domain.EventDispatcher,
	b domain.BloomRepository,
	requireImage bool,
) *Service {
	return &Service{
		articleRepo:  a,
		userRepo:     u,
		uploader:     up,
		dispatcher:   d,
		bloomRepo:    b,
		requireImage: requireImage,
	}
}

// resolveUser turns an unknown acting user into ErrUnauthorized.
func (a *Service) resolveUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, err
	}
	return user, nil
}

func (a *Service) Fetch(ctx context.Context) ([]domain.Article, error) {
	res, err := a.articleRepo.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []domain.Article{}
	}
	return res, nil
}

func (a *Service) FetchByAuthor(ctx context.Context, author string) ([]domain.Article, error) {
	res, err := a.articleRepo.FetchByAuthor(ctx, author)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, ErrNoArticlesForAuthor
	}
	return res, nil
}

// FetchOwn lists the articles of the acting user, matched by display name.
func (a *Service) FetchOwn(ctx context.Context, userID string) ([]domain.Article, error) {
	user, err := a.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.FetchByAuthor(ctx, user.Name)
}

func (a *Service) GetByID(ctx context.Context, id string) (domain.Article, error) {
	res, err := a.articleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Article{}, NoArticleWithID(id)
		}
		return domain.Article{}, err
	}
	return res, nil
}

// Store validates and persists a new article owned by userID. A present
// attachment is uploaded first; nothing is written when the upload fails.
func (a *Service) Store(ctx context.Context, userID string, ar *domain.Article, att *domain.Attachment) error {
	user, err := a.resolveUser(ctx, userID)
	if err != nil {
		return err
	}

	if strings.TrimSpace(ar.Title) == "" || strings.TrimSpace(ar.Content) == "" {
		return ErrTitleContentRequired
	}

	if att == nil {
		if a.requireImage {
			return ErrNoFileUploaded
		}
	} else {
		url, err := a.uploader.Upload(ctx, *att)
		if err != nil {
			logrus.Warnf("upload of %q failed: %v", att.Filename, err)
			return uploadFailed(err)
		}
		ar.Image = url
	}

	now := time.Now()
	ar.ID = ""
	ar.Author = user.Name
	ar.PostedBy = user.ID
	ar.Comments = []domain.Comment{}
	ar.Likes = []string{}
	ar.CreatedAt = now
	ar.UpdatedAt = now

	return a.articleRepo.Store(ctx, ar)
}

func (a *Service) Update(ctx context.Context, userID, id, title, content string) (domain.Article, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return domain.Article{}, ErrTitleContentRequired
	}

	ar, err := a.articleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Article{}, ErrArticleNotFound
		}
		return domain.Article{}, err
	}

	if ar.PostedBy != userID {
		return domain.Article{}, ErrNotOwner
	}

	ar.Title = title
	ar.Content = content
	ar.UpdatedAt = time.Now()
	if err := a.articleRepo.Update(ctx, &ar); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Article{}, ErrArticleNotFound
		}
		return domain.Article{}, err
	}
	return ar, nil
}

func (a *Service) AddLike(ctx context.Context, userID, articleID string) (domain.Article, []domain.Article, error) {
	ar, err := a.articleRepo.AddLike(ctx, articleID, userID)
	if err != nil {
		return domain.Article{}, nil, err
	}
	a.dispatcher.Send(domain.NewLikeEvent(articleID, userID, domain.Like))
	return a.withPosts(ctx, ar)
}

func (a *Service) RemoveLike(ctx context.Context, userID, articleID string) (domain.Article, []domain.Article, error) {
	ar, err := a.articleRepo.RemoveLike(ctx, articleID, userID)
	if err != nil {
		return domain.Article{}, nil, err
	}
	a.dispatcher.Send(domain.NewLikeEvent(articleID, userID, domain.Unlike))
	return a.withPosts(ctx, ar)
}

// withPosts attaches the full article list clients expect next to a like change.
func (a *Service) withPosts(ctx context.Context, ar domain.Article) (domain.Article, []domain.Article, error) {
	posts, err := a.Fetch(ctx)
	if err != nil {
		logrus.Errorf("failed to list articles after like change on %s: %v", ar.ID, err)
		return domain.Article{}, nil, err
	}
	return ar, posts, nil
}

// InitBloomFilter 启动时把所有文章ID写入布隆过滤器
func (a *Service) InitBloomFilter(ctx context.Context) error {
	if a.bloomRepo == nil {
		return nil
	}

	var (
		cursor string
		total  int
	)
	for {
		ids, err := a.articleRepo.FetchIDs(ctx, cursor, bloomBatchSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			break
		}
		if err := a.bloomRepo.BulkAdd(ctx, ids); err != nil {
			return err
		}
		total += len(ids)
		if len(ids) < bloomBatchSize {
			break
		}
		cursor = ids[len(ids)-1]
	}

	logrus.Infof("bloom filter initialized with %d article ids", total)
	return nil
}
