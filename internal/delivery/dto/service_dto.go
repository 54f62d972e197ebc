package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type SaveServiceRequest struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" validate:"required,max=255"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Description string          `json:"description"`
	DoctorIDs   []int64         `json:"doctor_ids" validate:"dive,gt=0"`
}

// Response DTOs

type ServiceResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type DoctorServiceResponse struct {
	ID             int64  `json:"id"`
	DoctorID       int64  `json:"doctor_id"`
	ServiceID      int64  `json:"service_id"`
	DoctorName     string `json:"doctor_name,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

type ServiceWithDoctorsResponse struct {
	Service        ServiceResponse         `json:"service"`
	DoctorServices []DoctorServiceResponse `json:"doctor_services"`
}
