package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// NearExpiryWindow is how far ahead an attribute's expiry date counts as near.
const NearExpiryWindow = 30 * 24 * time.Hour

// Attribute is a priced, dated stock-keeping variant of a medicine
type Attribute struct {
	BaseEntity
	MedicineID int64           `gorm:"not null;index" json:"medicine_id"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	Stock      int             `gorm:"not null;default:0" json:"stock"`
	PriceIn    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_in"`
	PriceOut   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_out"`
	ExpiryDate *time.Time      `gorm:"type:date" json:"expiry_date,omitempty"`
}

func (Attribute) TableName() string {
	return "attributes"
}

// IsExpired reports whether the expiry date lies before the given day
func (a *Attribute) IsExpired(now time.Time) bool {
	if a.ExpiryDate == nil {
		return false
	}
	return a.ExpiryDate.Before(startOfDay(now))
}

// IsNearExpiry reports whether the attribute expires within NearExpiryWindow
func (a *Attribute) IsNearExpiry(now time.Time) bool {
	if a.ExpiryDate == nil || a.IsExpired(now) {
		return false
	}
	return !a.ExpiryDate.After(startOfDay(now).Add(NearExpiryWindow))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
