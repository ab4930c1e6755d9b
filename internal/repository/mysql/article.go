package mysql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/repository/mysql/model"
)

type articleRepository struct {
	DB *gorm.DB
}

// mysql层只负责数据库操作
var _ domain.ArticleRepository = (*articleRepository)(nil)

// NewArticleRepository 创建数据库操作层
func NewArticleRepository(db *gorm.DB) *articleRepository {
	return &articleRepository{db}
}

// Migrate creates or updates the tables this package reads and writes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Article{}, &model.Comment{}, &model.ArticleLike{}, &model.User{})
}

func articleKey(id string) (int64, error) {
	n, err := model.ParseID(id)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.ErrNotFound
	}
	return n, nil
}

// withRelations 评论按追加顺序返回
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, id")
		}).
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, user_id")
		})
}

func toDomainList(articles []model.Article) []domain.Article {
	res := make([]domain.Article, 0, len(articles))
	for i := range articles {
		res = append(res, articles[i].ToDomain())
	}
	return res
}

func (m *articleRepository) Fetch(ctx context.Context) ([]domain.Article, error) {
	var articles []model.Article
	err := withRelations(m.DB.WithContext(ctx)).
		Order("created_at desc, id desc").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("repository/mysql/Fetch: %w", err)
	}
	return toDomainList(articles), nil
}

func (m *articleRepository) FetchByAuthor(ctx context.Context, author string) ([]domain.Article, error) {
	var articles []model.Article
	err := withRelations(m.DB.WithContext(ctx)).
		Where("author = ?", author).
		Order("created_at desc, id desc").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("repository/mysql/FetchByAuthor: %w", err)
	}
	return toDomainList(articles), nil
}

func (m *articleRepository) GetByID(ctx context.Context, id string) (domain.Article, error) {
	key, err := articleKey(id)
	if err != nil {
		return domain.Article{}, err
	}
	return getByID(m.DB.WithContext(ctx), key)
}

func getByID(db *gorm.DB, id int64) (domain.Article, error) {
	var article model.Article
	err := withRelations(db).First(&article, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Article{}, domain.ErrNotFound
		}
		return domain.Article{}, fmt.Errorf("repository/mysql/GetByID: %w", err)
	}
	return article.ToDomain(), nil
}

func (m *articleRepository) Store(ctx context.Context, a *domain.Article) error {
	articleModel := model.NewArticleFromDomain(a)
	articleModel.ID = 0
	if articleModel.CreatedAt.IsZero() {
		articleModel.CreatedAt = time.Now()
	}
	if articleModel.UpdatedAt.IsZero() {
		articleModel.UpdatedAt = articleModel.CreatedAt
	}

	result := m.DB.WithContext(ctx).Create(articleModel)
	if result.Error != nil {
		return fmt.Errorf("repository/mysql/Store: %w", result.Error)
	}
	a.ID = model.FormatID(articleModel.ID)
	a.CreatedAt = articleModel.CreatedAt
	a.UpdatedAt = articleModel.UpdatedAt
	if a.Comments == nil {
		a.Comments = []domain.Comment{}
	}
	if a.Likes == nil {
		a.Likes = []string{}
	}
	return nil
}

func (m *articleRepository) Update(ctx context.Context, ar *domain.Article) error {
	key, err := articleKey(ar.ID)
	if err != nil {
		return err
	}
	if ar.UpdatedAt.IsZero() {
		ar.UpdatedAt = time.Now()
	}

	result := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ?", key).
		Updates(map[string]any{
			"title":      ar.Title,
			"content":    ar.Content,
			"updated_at": ar.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("repository/mysql/Update: %w", result.Error)
	}

	// MySQL 在值未变化时 RowsAffected 为 0, 需要再确认一次是否存在
	if result.RowsAffected == 0 {
		return exists(m.DB.WithContext(ctx), key)
	}
	return nil
}

func exists(db *gorm.DB, id int64) error {
	var n int64
	if err := db.Model(&model.Article{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("repository/mysql/exists: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) PushComment(ctx context.Context, articleID string, c *domain.Comment) error {
	key, err := articleKey(articleID)
	if err != nil {
		return err
	}

	row := model.NewCommentFromDomain(key, c)
	row.ID = 0
	row.CreatedAt = time.Now()

	err = m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, key); err != nil {
			return err
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		return tx.Model(&model.Article{}).
			Where("id = ?", key).
			UpdateColumn("updated_at", row.CreatedAt).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("repository/mysql/PushComment: %w", err)
	}

	c.ID = model.FormatID(row.ID)
	c.CreatedAt = row.CreatedAt
	return nil
}

func (m *articleRepository) AddLike(ctx context.Context, articleID, userID string) (domain.Article, error) {
	return m.updateLikes(ctx, articleID, func(tx *gorm.DB, key int64) error {
		// 联合主键冲突说明已经赞过, 保持幂等
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.ArticleLike{ArticleID: key, UserID: userID, CreatedAt: time.Now()}).Error
	})
}

func (m *articleRepository) RemoveLike(ctx context.Context, articleID, userID string) (domain.Article, error) {
	return m.updateLikes(ctx, articleID, func(tx *gorm.DB, key int64) error {
		return tx.Where("article_id = ? AND user_id = ?", key, userID).
			Delete(&model.ArticleLike{}).Error
	})
}

func (m *articleRepository) updateLikes(ctx context.Context, articleID string, apply func(tx *gorm.DB, key int64) error) (domain.Article, error) {
	key, err := articleKey(articleID)
	if err != nil {
		return domain.Article{}, err
	}

	var res domain.Article
	err = m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, key); err != nil {
			return err
		}
		if err := apply(tx, key); err != nil {
			return err
		}
		res, err = getByID(tx, key)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Article{}, err
		}
		return domain.Article{}, fmt.Errorf("repository/mysql/updateLikes: %w", err)
	}
	return res, nil
}

func (m *articleRepository) FetchIDs(ctx context.Context, cursor string, limit int64) ([]string, error) {
	var after int64
	if cursor != "" {
		n, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return nil, domain.ErrBadParamInput
		}
		after = n
	}

	var ids []int64
	err := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("id > ?", after).
		Order("id").
		Limit(int(limit)).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("repository/mysql/FetchIDs: %w", err)
	}

	res := make([]string, 0, len(ids))
	for _, id := range ids {
		res = append(res, model.FormatID(id))
	}
	return res, nil
}
