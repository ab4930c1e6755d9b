package domain

import (
	"context"
	"time"
)

// Comment domain model
type Comment struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	PostedBy  string    `json:"postedBy"`
	CreatedAt time.Time `json:"createdAt"`

	// User 评论作者信息, only set on enriched reads
	User *User `json:"user,omitempty"`
}

// CommentUsecase 业务逻辑接口
type CommentUsecase interface {
	// Create appends a comment by userID and returns the article with commenters resolved.
	Create(ctx context.Context, userID, articleID, text string) (Article, error)
}
