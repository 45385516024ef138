package api

import (
	"github.com/gin-gonic/gin"

	"newswire/internal/auth"
	"newswire/internal/config"
	"newswire/internal/middleware"
	"newswire/internal/ratelimit"
	"newswire/internal/user"
)

// SetupRouter wires the primary JSON API: security headers, rate
// limit, CORS, then per-route auth.
func SetupRouter(cfg *config.Config, limiter *ratelimit.FixedWindowLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog("api"))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(limiter))
	r.Use(middleware.CORS(cfg.Server.CORSOrigin))

	r.GET("/health", healthHandler)

	apiGroup := r.Group("/api")
	{
		// Auth
		apiGroup.POST("/auth/login", LoginHandler(cfg))
		apiGroup.POST("/auth/logout", auth.RequireAuth(cfg, user.RoleVisitor), LogoutHandler())
		apiGroup.GET("/auth/me", auth.RequireAuth(cfg, user.RoleVisitor), MeHandler())

		// Articles: reads resolve an optional identity for the
		// visibility rule, writes require EDITOR+.
		apiGroup.GET("/articles", auth.OptionalAuth(cfg), ListArticlesHandler())
		apiGroup.GET("/articles/:id", auth.OptionalAuth(cfg), GetArticleHandler())
		apiGroup.POST("/articles", auth.RequireAuth(cfg, user.RoleEditor), CreateArticleHandler())
		apiGroup.PUT("/articles/:id", auth.RequireAuth(cfg, user.RoleEditor), UpdateArticleHandler())
		apiGroup.DELETE("/articles/:id", auth.RequireAuth(cfg, user.RoleEditor), DeleteArticleHandler())

		// Categories
		apiGroup.GET("/categories", ListCategoriesHandler())
		apiGroup.POST("/categories", auth.RequireAuth(cfg, user.RoleEditor), CreateCategoryHandler())
		apiGroup.PUT("/categories/:id", auth.RequireAuth(cfg, user.RoleEditor), UpdateCategoryHandler())
		apiGroup.DELETE("/categories/:id", auth.RequireAuth(cfg, user.RoleEditor), DeleteCategoryHandler())

		// Users (ADMIN only)
		apiGroup.GET("/users", auth.RequireAuth(cfg, user.RoleAdmin), ListUsersHandler())
		apiGroup.GET("/users/:id", auth.RequireAuth(cfg, user.RoleAdmin), GetUserHandler())
		apiGroup.POST("/users", auth.RequireAuth(cfg, user.RoleAdmin), CreateUserHandler(cfg))
		apiGroup.PUT("/users/:id", auth.RequireAuth(cfg, user.RoleAdmin), UpdateUserHandler(cfg))
		apiGroup.DELETE("/users/:id", auth.RequireAuth(cfg, user.RoleAdmin), DeleteUserHandler())

		// API tokens (ADMIN only)
		apiGroup.GET("/tokens", auth.RequireAuth(cfg, user.RoleAdmin), ListTokensHandler())
		apiGroup.POST("/tokens", auth.RequireAuth(cfg, user.RoleAdmin), CreateTokenHandler())
		apiGroup.PUT("/tokens/:id/toggle", auth.RequireAuth(cfg, user.RoleAdmin), ToggleTokenHandler())
		apiGroup.DELETE("/tokens/:id", auth.RequireAuth(cfg, user.RoleAdmin), DeleteTokenHandler())
	}
	return r
}
