package category

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id" xml:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name" xml:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty" xml:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt" xml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" xml:"updatedAt"`

	// ArticleCount is populated by CountArticles, not stored.
	ArticleCount int64 `gorm:"-" json:"articleCount" xml:"articleCount"`
}

// ArticleCountFor returns the number of articles referencing the category.
// Callers use it as the delete guard, checked before any delete attempt.
func ArticleCountFor(db *gorm.DB, categoryID uint) (int64, error) {
	var count int64
	err := db.Table("articles").Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// CountArticles fills ArticleCount for every category in cats with a
// single grouped query.
func CountArticles(db *gorm.DB, cats []Category) error {
	if len(cats) == 0 {
		return nil
	}
	type row struct {
		CategoryID uint
		N          int64
	}
	var rows []row
	err := db.Table("articles").
		Select("category_id, COUNT(*) AS n").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.N
	}
	for i := range cats {
		cats[i].ArticleCount = counts[cats[i].ID]
	}
	return nil
}
