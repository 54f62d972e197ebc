package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type SaveMedicineRequest struct {
	ID                     int64                  `json:"id"`
	Code                   string                 `json:"code" validate:"required,max=50"`
	Name                   string                 `json:"name" validate:"required,max=255"`
	Description            string                 `json:"description"`
	Origin                 string                 `json:"origin" validate:"omitempty,max=100"`
	IsPrescriptionRequired bool                   `json:"is_prescription_required"`
	UsageInstruction       string                 `json:"usage_instruction"`
	DosageInstruction      string                 `json:"dosage_instruction"`
	BrandID                *int64                 `json:"brand_id"`
	Attributes             []SaveAttributeRequest `json:"attributes" validate:"dive"`
}

type SaveAttributeRequest struct {
	ID         int64           `json:"id"`
	MedicineID int64           `json:"medicine_id"`
	Name       string          `json:"name" validate:"required,max=255"`
	Stock      int             `json:"stock" validate:"gte=0"`
	PriceIn    decimal.Decimal `json:"price_in" validate:"gte=0"`
	PriceOut   decimal.Decimal `json:"price_out" validate:"gte=0"`
	ExpiryDate *string         `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

// MedicineSearchRequest carries the optional search criteria. SortBy accepts
// price_asc, price_desc, name_asc and name_desc.
type MedicineSearchRequest struct {
	Name       string
	Code       string
	CategoryID *int64
	BrandID    *int64
	MaxPrice   *decimal.Decimal
	SortBy     string
}

// Response DTOs

type BrandResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type AttributeResponse struct {
	ID           int64           `json:"id"`
	MedicineID   int64           `json:"medicine_id"`
	Name         string          `json:"name"`
	Stock        int             `json:"stock"`
	PriceIn      decimal.Decimal `json:"price_in"`
	PriceOut     decimal.Decimal `json:"price_out"`
	ExpiryDate   *string         `json:"expiry_date,omitempty"`
	IsExpired    bool            `json:"is_expired"`
	IsNearExpiry bool            `json:"is_near_expiry"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type MedicineMediaResponse struct {
	ID         int64  `json:"id"`
	MedicineID int64  `json:"medicine_id"`
	MediaURL   string `json:"media_url"`
	MainImage  bool   `json:"main_image"`
}

type MedicineResponse struct {
	ID                     int64                   `json:"id"`
	Code                   string                  `json:"code"`
	Name                   string                  `json:"name"`
	Description            string                  `json:"description,omitempty"`
	Origin                 string                  `json:"origin,omitempty"`
	IsPrescriptionRequired bool                    `json:"is_prescription_required"`
	UsageInstruction       string                  `json:"usage_instruction,omitempty"`
	DosageInstruction      string                  `json:"dosage_instruction,omitempty"`
	BrandID                *int64                  `json:"brand_id,omitempty"`
	Brand                  *BrandResponse          `json:"brand,omitempty"`
	MainImage              string                  `json:"main_image,omitempty"`
	Attributes             []AttributeResponse     `json:"attributes"`
	Categories             []CategoryResponse      `json:"categories"`
	Medias                 []MedicineMediaResponse `json:"medias"`
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`
}

// MedicineWithDetailsResponse is returned by the composite save. The
// collections are the ones saved by that request.
type MedicineWithDetailsResponse struct {
	Medicine   MedicineResponse        `json:"medicine"`
	Medias     []MedicineMediaResponse `json:"medias"`
	Categories []CategoryResponse      `json:"categories"`
	Attributes []AttributeResponse     `json:"attributes"`
}

type MedicineDetailsResponse struct {
	Medicine   MedicineResponse        `json:"medicine"`
	Medias     []MedicineMediaResponse `json:"medias"`
	Categories []CategoryResponse      `json:"categories"`
}

type MedicineSummaryResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
