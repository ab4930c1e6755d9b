package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/go-article-service/internal/rest/middleware"
)

// RegisterArticleRoutes mounts the article API on g, normally /api/articles.
// auth guards every route that acts on behalf of a user.
func RegisterArticleRoutes(g *gin.RouterGroup, ah *ArticleHandler, ch *CommentHandler, auth gin.HandlerFunc) {
	g.Use(middleware.ErrorHandler())

	g.GET("/", ah.FetchArticle)
	g.GET("/articles", auth, ah.FetchOwn)
	g.GET("/:id", ah.GetByID)

	g.POST("/", auth, ah.Store)
	g.PUT("/:id", auth, ah.Update)

	g.POST("/:id/comment", auth, ch.CreateComment)
	g.POST("/:id/like", auth, ah.Like)
	g.DELETE("/:id/like", auth, ah.Unlike)
}
