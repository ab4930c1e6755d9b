package comment

import "github.com/Guyuepp/go-article-service/domain"

var (
	ErrCommentRequired = domain.NewError(domain.ErrBadParamInput, "Comment text is required.")
	ErrArticleNotFound = domain.NewError(domain.ErrNotFound, "Article not found.")
)
