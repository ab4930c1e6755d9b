package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/rest/middleware"
	"github.com/Guyuepp/go-article-service/internal/rest/request"
	"github.com/Guyuepp/go-article-service/internal/rest/response"
)

// formOverhead leaves room for the text fields and multipart framing
// on top of the image size limit.
const formOverhead = 1 << 20

// ArticleHandler  represent the httphandler for article
type ArticleHandler struct {
	Service  domain.ArticleUsecase
	maxBytes int64
}

// NewArticleHandler maxBytes bounds the multipart body of creation; 0 disables it.
func NewArticleHandler(svc domain.ArticleUsecase, maxBytes int64) *ArticleHandler {
	return &ArticleHandler{
		Service:  svc,
		maxBytes: maxBytes,
	}
}

func currentUser(c *gin.Context) (string, bool) {
	uid := c.GetString(middleware.ContextUserID)
	return uid, uid != ""
}

// FetchArticle lists every article
func (a *ArticleHandler) FetchArticle(c *gin.Context) {
	list, err := a.Service.Fetch(c.Request.Context())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"allarticles": response.NewArticlesFromDomain(list)})
}

// FetchOwn lists the articles of the authenticated user
func (a *ArticleHandler) FetchOwn(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ResponseError{Message: domain.ErrUnauthorized.Error()})
		return
	}

	list, err := a.Service.FetchOwn(c.Request.Context(), userID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": response.NewArticlesFromDomain(list)})
}

// GetByID will get article by given id
func (a *ArticleHandler) GetByID(c *gin.Context) {
	art, err := a.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": response.NewArticleFromDomain(&art)})
}

// Store will store the article by given multipart body
func (a *ArticleHandler) Store(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if a.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.maxBytes+formOverhead)
	}
	mf, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	form, err := request.NewArticleForm(mf)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var att *domain.Attachment
	if form.Image != nil {
		f, err := form.Image.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()
		att = &domain.Attachment{
			Filename:    form.Image.Filename,
			ContentType: form.Image.Header.Get("Content-Type"),
			Size:        form.Image.Size,
			Body:        f,
		}
	}

	article := form.ToDomain()
	if err := a.Service.Store(c.Request.Context(), userID, &article, att); err != nil {
		c.JSON(getStatusCode(err), gin.H{"error": errorMessage(err)})
		return
	}

	logrus.WithFields(logrus.Fields{"article_id": article.ID, "user_id": userID}).Info("article created")
	c.JSON(http.StatusCreated, response.NewArticleFromDomain(&article))
}

// Update replaces title and content of an article owned by the caller
func (a *ArticleHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req request.ArticleUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	art, err := a.Service.Update(c.Request.Context(), userID, c.Param("id"), req.Title, req.Content)
	if err != nil {
		c.JSON(getStatusCode(err), gin.H{"error": errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, response.NewArticleFromDomain(&art))
}

// Like adds the caller to the likes of an article
func (a *ArticleHandler) Like(c *gin.Context) {
	a.changeLike(c, a.Service.AddLike)
}

// Unlike removes the caller from the likes of an article
func (a *ArticleHandler) Unlike(c *gin.Context) {
	a.changeLike(c, a.Service.RemoveLike)
}

type likeFunc func(ctx context.Context, userID, articleID string) (domain.Article, []domain.Article, error)

func (a *ArticleHandler) changeLike(c *gin.Context, fn likeFunc) {
	userID, ok := currentUser(c)
	if !ok {
		_ = c.Error(domain.ErrUnauthorized)
		return
	}

	post, posts, err := fn(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"post":    response.NewArticleFromDomain(&post),
		"posts":   response.NewArticlesFromDomain(posts),
	})
}
