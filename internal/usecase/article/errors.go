package article

import (
	"fmt"

	"github.com/Guyuepp/go-article-service/domain"
)

var (
	ErrTitleContentRequired = domain.NewError(domain.ErrBadParamInput, "Title and content are required.")
	ErrNoFileUploaded       = domain.NewError(domain.ErrBadParamInput, "No file uploaded")
	ErrArticleNotFound      = domain.NewError(domain.ErrNotFound, "Article not found.")
	ErrNotOwner             = domain.NewError(domain.ErrForbidden, "User not authorized to update this article.")
	ErrNoArticlesForAuthor  = domain.NewError(domain.ErrNotFound, "No articles found for this author")
)

// NoArticleWithID is returned by GetByID for an unknown id.
func NoArticleWithID(id string) error {
	return domain.NewError(domain.ErrNotFound, fmt.Sprintf("No article with ID: %s found", id))
}

// uploadFailed surfaces the provider message to the client as a bad request.
func uploadFailed(err error) error {
	return domain.NewError(domain.ErrBadParamInput, err.Error())
}
