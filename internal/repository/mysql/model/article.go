package model

import (
	"strconv"
	"time"

	"github.com/Guyuepp/go-article-service/domain"
)

type Article struct {
	ID        int64         `gorm:"primaryKey;autoIncrement"`
	Title     string        `gorm:"type:varchar(255);not null"`
	Content   string        `gorm:"type:longtext;not null"`
	Image     string        `gorm:"type:varchar(1024)"`
	Author    string        `gorm:"type:varchar(128);index:idx_article_author;not null"`
	UserID    string        `gorm:"column:user_id;type:varchar(64);not null"`
	Comments  []Comment     `gorm:"foreignKey:ArticleID"`
	Likes     []ArticleLike `gorm:"foreignKey:ArticleID"`
	UpdatedAt time.Time     `gorm:"type:datetime(3)"`
	CreatedAt time.Time     `gorm:"type:datetime(3);index:idx_article_created"`
}

func (Article) TableName() string {
	return "article"
}

// ToDomain 需要 Comments 和 Likes 已经 Preload
func (m *Article) ToDomain() domain.Article {
	res := domain.Article{
		ID:        FormatID(m.ID),
		Title:     m.Title,
		Content:   m.Content,
		Image:     m.Image,
		Author:    m.Author,
		PostedBy:  m.UserID,
		Comments:  make([]domain.Comment, 0, len(m.Comments)),
		Likes:     make([]string, 0, len(m.Likes)),
		UpdatedAt: m.UpdatedAt,
		CreatedAt: m.CreatedAt,
	}
	for i := range m.Comments {
		res.Comments = append(res.Comments, m.Comments[i].ToDomain())
	}
	for _, l := range m.Likes {
		res.Likes = append(res.Likes, l.UserID)
	}
	return res
}

// NewArticleFromDomain maps the scalar columns only. Comments and likes live
// in their own tables and are written through dedicated statements.
func NewArticleFromDomain(a *domain.Article) *Article {
	id, _ := ParseID(a.ID)
	return &Article{
		ID:        id,
		Title:     a.Title,
		Content:   a.Content,
		Image:     a.Image,
		Author:    a.Author,
		UserID:    a.PostedBy,
		UpdatedAt: a.UpdatedAt,
		CreatedAt: a.CreatedAt,
	}
}

// ParseID converts a public article id to the row key. Anything that is not a
// positive integer is reported as ErrNotFound.
func ParseID(id string) (int64, error) {
	if id == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.ErrNotFound
	}
	return n, nil
}

func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
