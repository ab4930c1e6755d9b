package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/rest/request"
	"github.com/Guyuepp/go-article-service/internal/rest/response"
)

type CommentHandler struct {
	Service domain.CommentUsecase
}

func NewCommentHandler(svc domain.CommentUsecase) *CommentHandler {
	return &CommentHandler{
		Service: svc,
	}
}

// CreateComment 错误交给 ErrorHandler 统一渲染
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.NewError(domain.ErrBadParamInput, err.Error()))
		return
	}

	// Get user ID from context (set by authentication middleware)
	userID, ok := currentUser(c)
	if !ok {
		_ = c.Error(domain.ErrUnauthorized)
		return
	}

	post, err := h.Service.Create(c.Request.Context(), userID, c.Param("id"), req.Comment)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": response.NewArticleFromDomain(&post)})
}
