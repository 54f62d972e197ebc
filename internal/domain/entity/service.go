package entity

import "github.com/shopspring/decimal"

// Service is a billable clinical service
type Service struct {
	BaseEntity
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Image       string          `gorm:"type:text" json:"image,omitempty"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
}

func (Service) TableName() string {
	return "services"
}
