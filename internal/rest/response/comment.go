package response

import (
	"time"

	"github.com/Guyuepp/go-article-service/domain"
)

type Comment struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	PostedBy  string    `json:"postedBy"`
	CreatedAt time.Time `json:"createdAt"`

	// User 评论作者信息
	User *User `json:"user,omitempty"`
}

// User is the public part of a commenter.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewUserFromDomain(u *domain.User) *User {
	if u == nil {
		return nil
	}
	return &User{ID: u.ID, Name: u.Name, Email: u.Email}
}

// NewCommentFromDomain: Domain -> Response
func NewCommentFromDomain(c *domain.Comment) Comment {
	return Comment{
		ID:        c.ID,
		Text:      c.Text,
		PostedBy:  c.PostedBy,
		CreatedAt: c.CreatedAt,
		User:      NewUserFromDomain(c.User),
	}
}
