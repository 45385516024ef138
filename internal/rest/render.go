package rest

import (
	"encoding/xml"
	"strings"

	"github.com/gin-gonic/gin"

	"newswire/internal/article"
	"newswire/internal/category"
	"newswire/internal/user"
)

// The mirror speaks JSON by default and XML when the client asks for
// it via Accept: application/xml. Every response body below carries
// both tag sets so the same struct renders either way.

type Pagination struct {
	Page  int   `json:"page" xml:"page"`
	Limit int   `json:"limit" xml:"limit"`
	Total int64 `json:"total" xml:"total"`
	Pages int   `json:"pages" xml:"pages"`
}

type articlesResponse struct {
	XMLName    xml.Name          `json:"-" xml:"articlesResponse"`
	Articles   []article.Article `json:"articles" xml:"articles>article"`
	Pagination Pagination        `json:"pagination" xml:"pagination"`
}

type articleResponse struct {
	XMLName xml.Name        `json:"-" xml:"articleResponse"`
	Article article.Article `json:"article" xml:"article"`
}

type categoryGroup struct {
	Category     category.Category `json:"category" xml:"category"`
	Articles     []article.Article `json:"articles" xml:"articles>article"`
	ArticleCount int               `json:"articleCount" xml:"articleCount"`
}

type groupedArticlesResponse struct {
	XMLName xml.Name        `json:"-" xml:"categoriesResponse"`
	Groups  []categoryGroup `json:"categoriesWithArticles" xml:"categoriesWithArticles>group"`
}

type categoryArticlesResponse struct {
	XMLName    xml.Name          `json:"-" xml:"categoryArticlesResponse"`
	Category   category.Category `json:"category" xml:"category"`
	Articles   []article.Article `json:"articles" xml:"articles>article"`
	Pagination Pagination        `json:"pagination" xml:"pagination"`
}

type categoriesResponse struct {
	XMLName    xml.Name            `json:"-" xml:"categoriesResponse"`
	Categories []category.Category `json:"categories" xml:"categories>category"`
}

type userArticlesResponse struct {
	XMLName    xml.Name          `json:"-" xml:"userArticlesResponse"`
	User       user.Public       `json:"user" xml:"user"`
	Articles   []article.Article `json:"articles" xml:"articles>article"`
	Pagination Pagination        `json:"pagination" xml:"pagination"`
}

type healthResponse struct {
	XMLName  xml.Name `json:"-" xml:"response"`
	Status   string   `json:"status" xml:"status"`
	Service  string   `json:"service" xml:"service"`
	Database string   `json:"database" xml:"database"`
}

type errorResponse struct {
	XMLName xml.Name `json:"-" xml:"error"`
	Message string   `json:"error" xml:",chardata"`
}

func wantsXML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/xml")
}

func respond(c *gin.Context, status int, body any) {
	if wantsXML(c) {
		c.XML(status, body)
		return
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	respond(c, status, errorResponse{Message: message})
}
