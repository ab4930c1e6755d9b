package response

import (
	"time"

	"github.com/Guyuepp/go-article-service/domain"
)

type Article struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Author    string    `json:"Author"`
	PostedBy  string    `json:"postedBy"`
	Comments  []Comment `json:"comments"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewArticleFromDomain: Domain -> Response
func NewArticleFromDomain(a *domain.Article) Article {
	comments := make([]Comment, len(a.Comments))
	for i := range a.Comments {
		comments[i] = NewCommentFromDomain(&a.Comments[i])
	}
	likes := a.Likes
	if likes == nil {
		likes = []string{}
	}
	return Article{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Image:     a.Image,
		Author:    a.Author,
		PostedBy:  a.PostedBy,
		Comments:  comments,
		Likes:     likes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// NewArticlesFromDomain never returns nil, so empty lists encode as [].
func NewArticlesFromDomain(list []domain.Article) []Article {
	res := make([]Article, len(list))
	for i := range list {
		res[i] = NewArticleFromDomain(&list[i])
	}
	return res
}
