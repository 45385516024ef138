package rest

import (
	"github.com/gin-gonic/gin"

	"newswire/internal/auth"
	"newswire/internal/config"
	"newswire/internal/middleware"
	"newswire/internal/ratelimit"
)

// SetupRouter wires the REST/XML mirror. Reads are public; the single
// write path requires a store-issued API token.
func SetupRouter(cfg *config.Config, limiter *ratelimit.FixedWindowLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog("rest"))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(limiter))
	r.Use(middleware.CORS(cfg.Server.CORSOrigin))

	r.GET("/health", healthHandler)

	restGroup := r.Group("/api/rest")
	{
		restGroup.GET("/articles", listArticlesHandler)
		restGroup.GET("/articles/by-category", articlesByCategoryHandler)
		restGroup.GET("/articles/category/:categoryName", articlesForCategoryHandler)
		restGroup.GET("/articles/:id", getArticleHandler)
		restGroup.GET("/categories", listCategoriesHandler)
		restGroup.GET("/users/:id/articles", userArticlesHandler)
		restGroup.POST("/articles", auth.RequireAPIToken(), createArticleHandler)
	}
	return r
}
