package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/hospital-task-points/internal/utils"
)

// Paginate limits a query to one page. A zero limit leaves the query
// unbounded so internal callers can read everything.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
