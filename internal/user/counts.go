package user

import (
	"gorm.io/gorm"
)

// ArticleCounts returns the number of owned articles per user id.
// The count backs the delete guard: a user owning articles cannot be
// removed until ownership is transferred.
func ArticleCounts(db *gorm.DB, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	type row struct {
		AuthorID uint
		N        int64
	}
	var rows []row
	err := db.Table("articles").
		Select("author_id, COUNT(*) AS n").
		Where("author_id IN ?", ids).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.AuthorID] = r.N
	}
	return counts, nil
}
