package entity

// Medicine is a catalogue entry. Its attributes, category links and media are
// loaded through dedicated repository lookups rather than preloaded.
type Medicine struct {
	BaseEntity
	Code                   string `gorm:"type:varchar(50);index" json:"code"`
	Name                   string `gorm:"type:varchar(255);not null;index" json:"name"`
	Description            string `gorm:"type:text" json:"description,omitempty"`
	Origin                 string `gorm:"type:varchar(100)" json:"origin,omitempty"`
	IsPrescriptionRequired bool   `gorm:"not null" json:"is_prescription_required"`
	UsageInstruction       string `gorm:"type:text" json:"usage_instruction,omitempty"`
	DosageInstruction      string `gorm:"type:text" json:"dosage_instruction,omitempty"`
	BrandID                *int64 `gorm:"index" json:"brand_id,omitempty"`

	// Relationships
	Brand *Brand `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
}

func (Medicine) TableName() string {
	return "medicines"
}

// MedicineFilter is a domain-level filter for the medicine search.
// Name, BrandID and CategoryID are applied by the store; MaxPrice and SortBy
// are applied over the attributes of the matched medicines.
type MedicineFilter struct {
	Name       string
	CategoryID *int64
	BrandID    *int64
}
