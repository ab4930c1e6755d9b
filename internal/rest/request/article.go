package request

import (
	"fmt"
	"mime/multipart"
	"sort"

	"github.com/Guyuepp/go-article-service/domain"
)

// ImageField is the multipart file field carrying the article image.
const ImageField = "image"

var articleFormFields = map[string]bool{"title": true, "content": true}

// ArticleForm is the multipart body of article creation.
type ArticleForm struct {
	Title   string
	Content string
	Image   *multipart.FileHeader
}

// NewArticleForm reads the form and rejects fields it does not know.
func NewArticleForm(form *multipart.Form) (ArticleForm, error) {
	var res ArticleForm
	if form == nil {
		return res, nil
	}

	keys := make([]string, 0, len(form.Value))
	for k := range form.Value {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !articleFormFields[k] {
			return res, unexpectedField(k)
		}
	}
	for k, files := range form.File {
		if k != ImageField {
			return res, unexpectedField(k)
		}
		if len(files) > 1 {
			return res, unexpectedField(k)
		}
	}

	if v := form.Value["title"]; len(v) > 0 {
		res.Title = v[0]
	}
	if v := form.Value["content"]; len(v) > 0 {
		res.Content = v[0]
	}
	if files := form.File[ImageField]; len(files) == 1 {
		res.Image = files[0]
	}
	return res, nil
}

func unexpectedField(name string) error {
	return domain.NewError(domain.ErrBadParamInput, fmt.Sprintf("Unexpected field: %s", name))
}

// ToDomain: Request -> Domain
func (f *ArticleForm) ToDomain() domain.Article {
	return domain.Article{
		Title:   f.Title,
		Content: f.Content,
	}
}

// ArticleUpdate is the JSON body of PUT /api/articles/:id.
type ArticleUpdate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
