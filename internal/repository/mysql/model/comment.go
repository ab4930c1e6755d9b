package model

import (
	"time"

	"github.com/Guyuepp/go-article-service/domain"
)

type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ArticleID int64     `gorm:"column:article_id;index:idx_comment_article;not null"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"type:datetime(3)"`
}

func (Comment) TableName() string {
	return "comment"
}

func NewCommentFromDomain(articleID int64, c *domain.Comment) *Comment {
	id, _ := ParseID(c.ID)
	return &Comment{
		ID:        id,
		ArticleID: articleID,
		UserID:    c.PostedBy,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:        FormatID(m.ID),
		Text:      m.Text,
		PostedBy:  m.UserID,
		CreatedAt: m.CreatedAt,
	}
}
