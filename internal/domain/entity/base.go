package entity

import "time"

// BaseEntity carries the identity, timestamps and soft-delete flag shared by
// every persisted row. Soft-deleted rows stay in the table with IsDeleted set.
type BaseEntity struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// MarkDeleted flags the row as soft-deleted at the given time.
func (b *BaseEntity) MarkDeleted(at time.Time) {
	b.IsDeleted = true
	b.DeletedAt = &at
}

// Restore clears the soft-delete flag.
func (b *BaseEntity) Restore() {
	b.IsDeleted = false
	b.DeletedAt = nil
}

// SoftDeleteColumns returns the column set written by a soft delete.
func SoftDeleteColumns(at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"is_deleted": true,
		"deleted_at": at,
		"updated_at": at,
	}
}
