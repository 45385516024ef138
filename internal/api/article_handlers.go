package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"newswire/internal/article"
	"newswire/internal/auth"
	"newswire/internal/db"
	"newswire/internal/user"
)

// listFilterFromQuery builds the article filter, enforcing the
// visibility rule: anonymous and VISITOR callers only ever see
// published articles regardless of the filter they supply; EDITOR and
// ADMIN callers see both states unless they ask for one explicitly.
func listFilterFromQuery(c *gin.Context) article.ListFilter {
	f := article.ListFilter{
		Search:  c.Query("search"),
		SortAsc: c.Query("sort") == "asc",
	}
	if catID, err := strconv.ParseUint(c.Query("category"), 10, 64); err == nil {
		f.CategoryID = uint(catID)
	}
	if auth.CurrentRole(c).AtLeast(user.RoleEditor) {
		if raw, ok := c.GetQuery("published"); ok {
			published := raw == "true"
			f.Published = &published
		}
	} else {
		published := true
		f.Published = &published
	}
	return f
}

// GET /api/articles
func ListArticlesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePagination(c)
		f := listFilterFromQuery(c)

		var total int64
		if err := article.Query(db.DB, f).Count(&total).Error; err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		var articles []article.Article
		err := article.Query(db.DB, f).
			Preload("Author").Preload("Category").
			Offset((page - 1) * limit).Limit(limit).
			Find(&articles).Error
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"articles":   articles,
			"pagination": newPagination(page, limit, total),
		})
	}
}

// GET /api/articles/:id
//
// An unpublished article answers "not found" to unprivileged callers
// so its existence is not confirmed.
func GetArticleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var a article.Article
		err := db.DB.Preload("Author").Preload("Category").
			First(&a, parseID(c, "id")).Error
		if err != nil {
			jsonError(c, http.StatusNotFound, "Article not found")
			return
		}
		if !a.Published && !auth.CurrentRole(c).AtLeast(user.RoleEditor) {
			jsonError(c, http.StatusNotFound, "Article not found")
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

type createArticleRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Summary    string `json:"summary"`
	CategoryID uint   `json:"categoryId"`
	Published  bool   `json:"published"`
}

// POST /api/articles  [EDITOR+; the caller becomes the author]
func CreateArticleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil ||
			req.Title == "" || req.Content == "" || req.Summary == "" || req.CategoryID == 0 {
			jsonError(c, http.StatusBadRequest, "Missing required fields")
			return
		}
		u, _ := auth.CurrentUser(c)
		a := article.Article{
			Title:      req.Title,
			Content:    req.Content,
			Summary:    req.Summary,
			CategoryID: req.CategoryID,
			AuthorID:   u.ID,
			Published:  req.Published,
		}
		if err := db.DB.Create(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				jsonError(c, http.StatusBadRequest, "Invalid category ID")
				return
			}
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		db.DB.Preload("Author").Preload("Category").First(&a, a.ID)
		c.JSON(http.StatusCreated, a)
	}
}

type updateArticleRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Summary    *string `json:"summary"`
	CategoryID *uint   `json:"categoryId"`
	Published  *bool   `json:"published"`
}

// PUT /api/articles/:id  [author or ADMIN; omitted fields keep their values]
func UpdateArticleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var a article.Article
		if err := db.DB.First(&a, parseID(c, "id")).Error; err != nil {
			jsonError(c, http.StatusNotFound, "Article not found")
			return
		}
		u, _ := auth.CurrentUser(c)
		if a.AuthorID != u.ID && u.Role != user.RoleAdmin {
			jsonError(c, http.StatusForbidden, "Forbidden")
			return
		}
		var req updateArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			jsonError(c, http.StatusBadRequest, "Invalid request")
			return
		}
		if req.Title != nil {
			a.Title = *req.Title
		}
		if req.Content != nil {
			a.Content = *req.Content
		}
		if req.Summary != nil {
			a.Summary = *req.Summary
		}
		if req.CategoryID != nil {
			a.CategoryID = *req.CategoryID
		}
		if req.Published != nil {
			a.Published = *req.Published
		}
		if err := db.DB.Save(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				jsonError(c, http.StatusBadRequest, "Invalid category ID")
				return
			}
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		db.DB.Preload("Author").Preload("Category").First(&a, a.ID)
		c.JSON(http.StatusOK, a)
	}
}

// DELETE /api/articles/:id  [author or ADMIN]
func DeleteArticleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var a article.Article
		if err := db.DB.First(&a, parseID(c, "id")).Error; err != nil {
			jsonError(c, http.StatusNotFound, "Article not found")
			return
		}
		u, _ := auth.CurrentUser(c)
		if a.AuthorID != u.ID && u.Role != user.RoleAdmin {
			jsonError(c, http.StatusForbidden, "Forbidden")
			return
		}
		if err := db.DB.Delete(&a).Error; err != nil {
			jsonError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
	}
}
