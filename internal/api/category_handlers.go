package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"newswire/internal/category"
	"newswire/internal/db"
)

// GET /api/categories
func ListCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var cats []category.Category
		if err := db.DB.Order("name ASC").Find(&cats).Error; err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if err := category.CountArticles(db.DB, cats); err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, cats)
	}
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// POST /api/categories  [EDITOR+]
func CreateCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			jsonError(c, http.StatusBadRequest, "Category name is required")
			return
		}
		cat := category.Category{Name: req.Name, Description: req.Description}
		if err := db.DB.Create(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				jsonError(c, http.StatusBadRequest, "Category name already exists")
				return
			}
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// PUT /api/categories/:id  [EDITOR+]
func UpdateCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var cat category.Category
		if err := db.DB.First(&cat, parseID(c, "id")).Error; err != nil {
			jsonError(c, http.StatusNotFound, "Category not found")
			return
		}
		var req updateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, http.StatusBadRequest, "Invalid request")
			return
		}
		if req.Name != nil {
			cat.Name = *req.Name
		}
		if req.Description != nil {
			cat.Description = *req.Description
		}
		if err := db.DB.Save(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				jsonError(c, http.StatusBadRequest, "Category name already exists")
				return
			}
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

// DELETE /api/categories/:id  [EDITOR+]
//
// The article count is checked before the delete attempt so the
// caller gets a descriptive rejection instead of a raw constraint
// error from the store.
func DeleteCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var cat category.Category
		if err := db.DB.First(&cat, parseID(c, "id")).Error; err != nil {
			jsonError(c, http.StatusNotFound, "Category not found")
			return
		}
		count, err := category.ArticleCountFor(db.DB, cat.ID)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if count > 0 {
			jsonError(c, http.StatusBadRequest, "Cannot delete category with existing articles")
			return
		}
		if err := db.DB.Delete(&cat).Error; err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
