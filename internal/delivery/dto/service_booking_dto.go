package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type SaveServiceBookingRequest struct {
	ID         int64            `json:"id"`
	ServiceID  int64            `json:"service_id" validate:"required,gt=0"`
	PatientID  int64            `json:"patient_id" validate:"required,gt=0"`
	Status     string           `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
	TotalPrice *decimal.Decimal `json:"total_price" validate:"omitempty,gte=0"`
	Notes      string           `json:"notes"`
}

// UpdateBookingStatusPriceRequest keeps total_price raw so that both JSON
// numbers and numeric strings are accepted and bad values can be echoed back.
type UpdateBookingStatusPriceRequest struct {
	Status     *string         `json:"status"`
	TotalPrice json.RawMessage `json:"total_price"`
}

// Response DTOs

type AppointmentSummaryResponse struct {
	ID              int64  `json:"id"`
	DoctorID        int64  `json:"doctor_id"`
	DoctorName      string `json:"doctor_name,omitempty"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Status          string `json:"status"`
}

type ServiceBookingResponse struct {
	ID          int64                       `json:"id"`
	ServiceID   int64                       `json:"service_id"`
	ServiceName string                      `json:"service_name,omitempty"`
	PatientID   int64                       `json:"patient_id"`
	PatientName string                      `json:"patient_name,omitempty"`
	Status      string                      `json:"status"`
	TotalPrice  decimal.Decimal             `json:"total_price"`
	Notes       string                      `json:"notes,omitempty"`
	Appointment *AppointmentSummaryResponse `json:"appointment,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}
