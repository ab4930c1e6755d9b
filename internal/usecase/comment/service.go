package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-article-service/domain"
)

type service struct {
	articleRepo domain.ArticleRepository
	userRepo    domain.UserRepository
	bloomRepo   domain.BloomRepository
	dispatcher  domain.EventDispatcher
}

var _ domain.CommentUsecase = (*service)(nil)

// NewService bloomRepo may be nil.
func NewService(
	articleRepo domain.ArticleRepository,
	userRepo domain.UserRepository,
	bloomRepo domain.BloomRepository,
	dispatcher domain.EventDispatcher,
) *service {
	return &service{
		articleRepo: articleRepo,
		userRepo:    userRepo,
		bloomRepo:   bloomRepo,
		dispatcher:  dispatcher,
	}
}

func (s *service) mustExists(ctx context.Context, id string) error {
	if s.bloomRepo == nil {
		return nil
	}
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err == nil && !exists {
		logrus.Warnf("bloom filter says article %s does not exist", id)
		return ErrArticleNotFound
	}

	return nil
}

// Create appends a comment and returns the article with every commenter resolved.
func (s *service) Create(ctx context.Context, userID, articleID, text string) (domain.Article, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Article{}, ErrCommentRequired
	}
	if err := s.mustExists(ctx, articleID); err != nil {
		return domain.Article{}, err
	}

	c := domain.Comment{Text: text, PostedBy: userID}
	if err := s.articleRepo.PushComment(ctx, articleID, &c); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Article{}, ErrArticleNotFound
		}
		return domain.Article{}, err
	}

	// 缓存里可能还是写入前的快照
	ar, err := s.articleRepo.GetByID(domain.WithoutCache(ctx), articleID)
	if err != nil {
		return domain.Article{}, err
	}
	s.fillCommenters(ctx, &ar)

	if posted, ok := ar.CommentByID(c.ID); ok {
		c = posted
	}
	s.dispatcher.Send(domain.NewCommentEvent(articleID, c))

	return ar, nil
}

// fillCommenters 批量填充评论者信息, 查不到的用户保持为空
func (s *service) fillCommenters(ctx context.Context, ar *domain.Article) {
	if len(ar.Comments) == 0 {
		return
	}

	ids := make([]string, 0, len(ar.Comments))
	seen := make(map[string]bool)
	for _, c := range ar.Comments {
		if !seen[c.PostedBy] {
			ids = append(ids, c.PostedBy)
			seen[c.PostedBy] = true
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		logrus.Warnf("failed to resolve commenters of article %s: %v", ar.ID, err)
		return
	}

	userMap := make(map[string]domain.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}
	for i := range ar.Comments {
		if u, ok := userMap[ar.Comments[i].PostedBy]; ok {
			ar.Comments[i].User = &u
		}
	}
}
