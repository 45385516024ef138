package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"newswire/internal/auth"
	"newswire/internal/config"
	"newswire/internal/db"
	"newswire/internal/user"
)

// duplicateUserField reports which unique column an insert/update
// collided on, so the conflict message can name the field.
func duplicateUserField(username, email string, excludeID uint) string {
	var count int64
	db.DB.Model(&user.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count)
	if count > 0 {
		return "username"
	}
	return "email"
}

// GET /api/users  [ADMIN]
func ListUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePagination(c)
		q := db.DB.Model(&user.User{})
		if role := c.Query("role"); role != "" {
			q = q.Where("role = ?", role)
		}
		var total int64
		if err := q.Count(&total).Error; err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		var users []user.User
		err := q.Order("created_at DESC").
			Offset((page - 1) * limit).Limit(limit).
			Find(&users).Error
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		ids := make([]uint, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		counts, err := user.ArticleCounts(db.DB, ids)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		result := make([]gin.H, 0, len(users))
		for _, u := range users {
			result = append(result, gin.H{
				"id":           u.ID,
				"username":     u.Username,
				"email":        u.Email,
				"role":         u.Role,
				"createdAt":    u.CreatedAt,
				"updatedAt":    u.UpdatedAt,
				"articleCount": counts[u.ID],
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"users":      result,
			"pagination": newPagination(page, limit, total),
		})
	}
}

// GET /api/users/:id  [ADMIN]
func GetUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var u user.User
		if err := db.DB.First(&u, parseID(c, "id")).Error; err != nil {
			jsonError(c, http.StatusNotFound, "User not found")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// POST /api/users  [ADMIN]
func CreateUserHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.CreatePayload
		if err := c.ShouldBindJSON(&req); err != nil ||
			req.Username == "" || req.Email == "" || req.Password == "" {
			jsonError(c, http.StatusBadRequest, "Username, email, and password are required")
			return
		}
		if req.Role == "" {
			req.Role = user.RoleVisitor
		}
		if !req.Role.Valid() {
			jsonError(c, http.StatusBadRequest, "Invalid role")
			return
		}
		if err := req.Validate(); err != nil {
			jsonError(c, http.StatusBadRequest, "Invalid user fields")
			return
		}
		pwHash, err := user.HashPasswordCost(req.Password, cfg.BcryptCost)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "Password hash failed")
			return
		}
		u := user.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: pwHash,
			Role:         req.Role,
		}
		if err := db.DB.Create(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				field := duplicateUserField(req.Username, req.Email, 0)
				jsonError(c, http.StatusBadRequest, field+" already exists")
				return
			}
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// PUT /api/users/:id  [ADMIN]
//
// An admin cannot change their own role; omitted fields keep their
// values.
func UpdateUserHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var u user.User
		if err := db.DB.First(&u, parseID(c, "id")).Error; err != nil {
			jsonError(c, http.StatusNotFound, "User not found")
			return
		}
		var req user.UpdatePayload
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, http.StatusBadRequest, "Invalid request")
			return
		}
		acting, _ := auth.CurrentUser(c)
		if req.Role != nil && u.ID == acting.ID && *req.Role != u.Role {
			jsonError(c, http.StatusBadRequest, "Cannot change your own role")
			return
		}
		if req.Role != nil && !req.Role.Valid() {
			jsonError(c, http.StatusBadRequest, "Invalid role")
			return
		}
		if err := req.Validate(); err != nil {
			jsonError(c, http.StatusBadRequest, "Invalid user fields")
			return
		}
		if req.Username != nil {
			u.Username = *req.Username
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.Role != nil {
			u.Role = *req.Role
		}
		if req.Password != nil && *req.Password != "" {
			pwHash, err := user.HashPasswordCost(*req.Password, cfg.BcryptCost)
			if err != nil {
				jsonError(c, http.StatusInternalServerError, "Password hash failed")
				return
			}
			u.PasswordHash = pwHash
		}
		if err := db.DB.Save(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				field := duplicateUserField(u.Username, u.Email, u.ID)
				jsonError(c, http.StatusBadRequest, field+" already exists")
				return
			}
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// DELETE /api/users/:id  [ADMIN]
//
// Self-deletion is rejected, as is deleting a user who still owns
// articles; this system never cascades.
func DeleteUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var u user.User
		if err := db.DB.First(&u, parseID(c, "id")).Error; err != nil {
			jsonError(c, http.StatusNotFound, "User not found")
			return
		}
		acting, _ := auth.CurrentUser(c)
		if u.ID == acting.ID {
			jsonError(c, http.StatusBadRequest, "Cannot delete your own account")
			return
		}
		counts, err := user.ArticleCounts(db.DB, []uint{u.ID})
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if counts[u.ID] > 0 {
			jsonError(c, http.StatusBadRequest, "Cannot delete user with existing articles")
			return
		}
		if err := db.DB.Delete(&u).Error; err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}
