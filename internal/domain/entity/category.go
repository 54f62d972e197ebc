package entity

type Category struct {
	BaseEntity
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}
