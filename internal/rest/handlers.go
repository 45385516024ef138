package rest

import (
	"encoding/xml"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"newswire/internal/article"
	"newswire/internal/category"
	"newswire/internal/db"
	"newswire/internal/user"
)

const articlesPerGroup = 5

func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func newPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func publishedFilter(c *gin.Context, def *bool) *bool {
	raw, ok := c.GetQuery("published")
	if !ok {
		return def
	}
	published := raw == "true"
	return &published
}

// GET /health
func healthHandler(c *gin.Context) {
	body := healthResponse{Status: "OK", Service: "REST", Database: "Connected"}
	sqlDB, err := db.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		body.Status = "Error"
		body.Database = "Disconnected"
		respond(c, http.StatusServiceUnavailable, body)
		return
	}
	respond(c, http.StatusOK, body)
}

// GET /api/rest/articles
func listArticlesHandler(c *gin.Context) {
	page, limit := parsePagination(c)
	f := article.ListFilter{
		CategoryName: c.Query("category"),
		Published:    publishedFilter(c, nil),
	}
	var total int64
	if err := article.Query(db.DB, f).Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	var articles []article.Article
	err := article.Query(db.DB, f).
		Preload("Author").Preload("Category").
		Offset((page - 1) * limit).Limit(limit).
		Find(&articles).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(c, http.StatusOK, articlesResponse{
		Articles:   articles,
		Pagination: newPagination(page, limit, total),
	})
}

// GET /api/rest/articles/:id
func getArticleHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "Article not found")
		return
	}
	var a article.Article
	if err := db.DB.Preload("Author").Preload("Category").First(&a, uint(id)).Error; err != nil {
		respondError(c, http.StatusNotFound, "Article not found")
		return
	}
	respond(c, http.StatusOK, articleResponse{Article: a})
}

// GET /api/rest/articles/by-category
//
// Groups the most recent articles under each category, capped at
// articlesPerGroup per category.
func articlesByCategoryHandler(c *gin.Context) {
	published := c.DefaultQuery("published", "true") == "true"

	var cats []category.Category
	if err := db.DB.Order("name ASC").Find(&cats).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	groups := make([]categoryGroup, 0, len(cats))
	for _, cat := range cats {
		var articles []article.Article
		err := db.DB.Where("category_id = ? AND published = ?", cat.ID, published).
			Preload("Author").
			Order("created_at DESC").Limit(articlesPerGroup).
			Find(&articles).Error
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		groups = append(groups, categoryGroup{
			Category:     cat,
			Articles:     articles,
			ArticleCount: len(articles),
		})
	}
	respond(c, http.StatusOK, groupedArticlesResponse{Groups: groups})
}

// GET /api/rest/articles/category/:categoryName
func articlesForCategoryHandler(c *gin.Context) {
	var cat category.Category
	err := db.DB.Where("LOWER(name) = ?", strings.ToLower(c.Param("categoryName"))).
		First(&cat).Error
	if err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}
	page, limit := parsePagination(c)
	published := c.DefaultQuery("published", "true") == "true"
	f := article.ListFilter{CategoryID: cat.ID, Published: &published}

	var total int64
	if err := article.Query(db.DB, f).Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	var articles []article.Article
	err = article.Query(db.DB, f).
		Preload("Author").Preload("Category").
		Offset((page - 1) * limit).Limit(limit).
		Find(&articles).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(c, http.StatusOK, categoryArticlesResponse{
		Category:   cat,
		Articles:   articles,
		Pagination: newPagination(page, limit, total),
	})
}

// GET /api/rest/categories
func listCategoriesHandler(c *gin.Context) {
	var cats []category.Category
	if err := db.DB.Order("name ASC").Find(&cats).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := category.CountArticles(db.DB, cats); err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(c, http.StatusOK, categoriesResponse{Categories: cats})
}

// GET /api/rest/users/:id/articles
func userArticlesHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	var u user.User
	if err := db.DB.First(&u, uint(id)).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	page, limit := parsePagination(c)
	f := article.ListFilter{AuthorID: u.ID, Published: publishedFilter(c, nil)}

	var total int64
	if err := article.Query(db.DB, f).Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	var articles []article.Article
	err = article.Query(db.DB, f).
		Preload("Category").
		Offset((page - 1) * limit).Limit(limit).
		Find(&articles).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(c, http.StatusOK, userArticlesResponse{
		User:       u.Public(),
		Articles:   articles,
		Pagination: newPagination(page, limit, total),
	})
}

type articleRequest struct {
	XMLName    xml.Name `json:"-" xml:"article"`
	Title      string   `json:"title" xml:"title"`
	Content    string   `json:"content" xml:"content"`
	Summary    string   `json:"summary" xml:"summary"`
	CategoryID uint     `json:"categoryId" xml:"categoryId"`
	AuthorID   uint     `json:"authorId" xml:"authorId"`
	Published  bool     `json:"published" xml:"published"`
}

// POST /api/rest/articles
//
// Machine write path: the body may be JSON or XML, keyed off the
// request content type, and the author is named explicitly rather
// than taken from a session.
func createArticleHandler(c *gin.Context) {
	var req articleRequest
	contentType := c.GetHeader("Content-Type")
	if strings.Contains(contentType, "xml") {
		if err := xml.NewDecoder(c.Request.Body).Decode(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid XML body")
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}
	if req.Title == "" || req.Content == "" || req.Summary == "" || req.CategoryID == 0 || req.AuthorID == 0 {
		respondError(c, http.StatusBadRequest, "Missing required fields: title, content, summary, categoryId, authorId")
		return
	}
	a := article.Article{
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		CategoryID: req.CategoryID,
		AuthorID:   req.AuthorID,
		Published:  req.Published,
	}
	if err := db.DB.Create(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			respondError(c, http.StatusBadRequest, "Invalid category or author ID")
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	db.DB.Preload("Author").Preload("Category").First(&a, a.ID)
	respond(c, http.StatusCreated, articleResponse{Article: a})
}
