package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// notDeleted restricts a query to rows that have not been soft-deleted
func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// nameContains matches rows whose name contains s case-insensitively. LIKE
// wildcards in s match literally.
func nameContains(s string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
}

// firstOrNil maps gorm.ErrRecordNotFound to a nil error so callers can treat
// a missing row as a nil result
func firstOrNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
