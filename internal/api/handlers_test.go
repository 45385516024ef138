package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"newswire/internal/article"
	"newswire/internal/auth"
	"newswire/internal/category"
	"newswire/internal/config"
	"newswire/internal/db"
	"newswire/internal/token"
	"newswire/internal/user"
)

// testPassword is the plaintext behind every seeded user; hashing at
// the bcrypt minimum keeps the suite fast.
const testPassword = "password123"

func setupAPITestDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(&user.User{}, &category.Category{}, &article.Article{}, &token.AuthToken{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.DB = dbConn
	for _, table := range []string{"auth_tokens", "articles", "categories", "users"} {
		if err := db.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s: %v", table, err)
		}
	}
	return dbConn
}

func apiTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "test-secret"
	cfg.Server.JWTExpiresHours = 1
	cfg.Server.CORSOrigin = "http://localhost:3000"
	cfg.BcryptCost = 4
	return cfg
}

func apiTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(cfg, nil)
}

func seedUser(t *testing.T, username string, role user.Role) user.User {
	hash, err := user.HashPasswordCost(testPassword, 4)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	u := user.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.DB.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return u
}

func seedCategory(t *testing.T, name string) category.Category {
	cat := category.Category{Name: name, Description: name + " news"}
	if err := db.DB.Create(&cat).Error; err != nil {
		t.Fatalf("failed to seed category %s: %v", name, err)
	}
	return cat
}

func seedArticle(t *testing.T, title string, authorID, categoryID uint, published bool) article.Article {
	a := article.Article{
		Title:      title,
		Content:    "content of " + title,
		Summary:    "summary of " + title,
		AuthorID:   authorID,
		CategoryID: categoryID,
		Published:  published,
	}
	if err := db.DB.Create(&a).Error; err != nil {
		t.Fatalf("failed to seed article %s: %v", title, err)
	}
	return a
}

func bearerFor(t *testing.T, cfg *config.Config, u user.User) string {
	tok, err := auth.GenerateJWT(cfg.Server.JWTSecret, u.ID, u.Username, u.Role, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate JWT: %v", err)
	}
	return "Bearer " + tok
}

func doJSON(r *gin.Engine, method, path, body, bearer string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, out any) {
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func toStrUint(x uint) string {
	return fmt.Sprintf("%d", x)
}
