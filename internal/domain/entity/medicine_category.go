package entity

// MedicineCategory links a medicine to a category
type MedicineCategory struct {
	BaseEntity
	MedicineID int64 `gorm:"not null;index" json:"medicine_id"`
	CategoryID int64 `gorm:"not null;index" json:"category_id"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (MedicineCategory) TableName() string {
	return "medicine_categories"
}
