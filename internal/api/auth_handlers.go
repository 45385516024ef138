package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newswire/internal/auth"
	"newswire/internal/config"
	"newswire/internal/db"
	"newswire/internal/user"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/login
//
// The username field also accepts an email address. Wrong password and
// unknown user produce the same generic error so callers cannot
// enumerate accounts.
func LoginHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
			jsonError(c, http.StatusBadRequest, "Username and password are required")
			return
		}
		var u user.User
		if err := db.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&u).Error; err != nil {
			jsonError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err := user.CheckPassword(u.PasswordHash, req.Password); err != nil {
			jsonError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		duration := time.Duration(cfg.Server.JWTExpiresHours) * time.Hour
		token, err := auth.GenerateJWT(cfg.Server.JWTSecret, u.ID, u.Username, u.Role, duration)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
	}
}

// POST /api/auth/logout
//
// JWTs are stateless; logout is handled client-side by discarding the
// token. The endpoint exists so clients have a uniform call to make.
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

// GET /api/auth/me
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := auth.CurrentUser(c)
		if !ok {
			jsonError(c, http.StatusNotFound, "User not found")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
