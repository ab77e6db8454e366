package helper

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// GenerateUniqueSlug slugifies name and appends -1, -2 ... until no row of m uses it.
// excludeId skips the row being renamed.
func GenerateUniqueSlug(tx *gorm.DB, m interface{}, name string, excludeId uint) string {
	base := slug.Make(name)
	if base == "" {
		base = "item"
	}
	result := base
	i := 1

	for {
		var count int64
		q := tx.Model(m).Where("slug = ?", result)
		if excludeId != 0 {
			q = q.Where("id <> ?", excludeId)
		}
		q.Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}
