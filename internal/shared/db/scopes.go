package db

import (
	"gorm.io/gorm"
)

// WithHistory disables soft-delete filtering so revoked rows are returned too.
// History reads must opt in explicitly.
func WithHistory() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	}
}

// Paginate applies offset/limit for a 1-based page.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
