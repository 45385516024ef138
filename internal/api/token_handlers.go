package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newswire/internal/db"
	"newswire/internal/token"
	"newswire/internal/user"
)

// Token endpoints use the success/data envelope the original token
// management UI consumes.

// GET /api/tokens  [ADMIN]
func ListTokensHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokens []token.AuthToken
		err := db.DB.Preload("User").Order("created_at DESC").Find(&tokens).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list tokens"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": tokens})
	}
}

type createTokenRequest struct {
	Name      string `json:"name"`
	ExpiresAt string `json:"expiresAt"`
	UserID    *uint  `json:"userId"`
}

// POST /api/tokens  [ADMIN]
//
// The full token value is returned exactly once, in this response.
func CreateTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
			return
		}
		if req.UserID != nil {
			var u user.User
			if err := db.DB.First(&u, *req.UserID).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
				return
			}
		}
		var expiresAt *time.Time
		if req.ExpiresAt != "" {
			t, err := time.Parse(time.RFC3339, req.ExpiresAt)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid expiresAt"})
				return
			}
			expiresAt = &t
		}
		value, err := token.GenerateValue()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate token"})
			return
		}
		tokenType := req.Name
		if tokenType == "" {
			tokenType = "API"
		}
		t := token.AuthToken{
			Token:     value,
			Type:      tokenType,
			IsActive:  true,
			ExpiresAt: expiresAt,
			UserID:    req.UserID,
		}
		if err := db.DB.Create(&t).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create token"})
			return
		}
		if t.UserID != nil {
			db.DB.Preload("User").First(&t, t.ID)
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": t, "message": "Token created successfully"})
	}
}

// PUT /api/tokens/:id/toggle  [ADMIN]
func ToggleTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var t token.AuthToken
		if err := db.DB.First(&t, parseID(c, "id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Token not found"})
			return
		}
		t.IsActive = !t.IsActive
		if err := db.DB.Save(&t).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": t})
	}
}

// DELETE /api/tokens/:id  [ADMIN]
func DeleteTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var t token.AuthToken
		if err := db.DB.First(&t, parseID(c, "id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Token not found"})
			return
		}
		if err := db.DB.Delete(&t).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Token deleted successfully"})
	}
}
