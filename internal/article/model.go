package article

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"newswire/internal/category"
	"newswire/internal/user"
)

type Article struct {
	ID         uint      `gorm:"primaryKey" json:"id" xml:"id"`
	Title      string    `gorm:"size:200;not null" json:"title" xml:"title"`
	Content    string    `gorm:"type:text;not null" json:"content" xml:"content"`
	Summary    string    `gorm:"size:500;not null" json:"summary" xml:"summary"`
	Published  bool      `gorm:"not null;default:false" json:"published" xml:"published"`
	AuthorID   uint      `gorm:"not null;index" json:"authorId" xml:"authorId"`
	CategoryID uint      `gorm:"not null;index" json:"categoryId" xml:"categoryId"`
	CreatedAt  time.Time `json:"createdAt" xml:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" xml:"updatedAt"`

	Author   *user.User         `gorm:"foreignKey:AuthorID" json:"author,omitempty" xml:"author,omitempty"`
	Category *category.Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" xml:"category,omitempty"`
}

// ListFilter narrows article list queries. A nil Published means
// "both states"; callers enforce the visibility rule before building
// the filter.
type ListFilter struct {
	CategoryID   uint
	CategoryName string
	AuthorID     uint
	Published    *bool
	Search       string
	SortAsc      bool
}

// Query applies f to an articles query. Search is a case-insensitive
// substring match over title, summary and content.
func Query(db *gorm.DB, f ListFilter) *gorm.DB {
	q := db.Model(&Article{})
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.CategoryName != "" {
		q = q.Where("category_id IN (SELECT id FROM categories WHERE LOWER(name) LIKE ?)",
			"%"+strings.ToLower(f.CategoryName)+"%")
	}
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.Published != nil {
		q = q.Where("published = ?", *f.Published)
	}
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(summary) LIKE ? OR LOWER(content) LIKE ?",
			term, term, term)
	}
	if f.SortAsc {
		q = q.Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	return q
}
