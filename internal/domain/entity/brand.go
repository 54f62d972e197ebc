package entity

type Brand struct {
	BaseEntity
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Image string `gorm:"type:text" json:"image,omitempty"`
}

func (Brand) TableName() string {
	return "brands"
}
