package entity

// MedicineMedia is an image of a medicine. At most one active row per
// medicine has MainImage set.
type MedicineMedia struct {
	BaseEntity
	MedicineID int64  `gorm:"not null;index" json:"medicine_id"`
	MediaURL   string `gorm:"column:media_url;type:text;not null" json:"media_url"`
	MainImage  bool   `gorm:"not null" json:"main_image"`
}

func (MedicineMedia) TableName() string {
	return "medicine_medias"
}
