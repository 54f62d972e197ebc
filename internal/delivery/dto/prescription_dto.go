package dto

import "time"

// Request DTOs

type SavePrescriptionRequest struct {
	ID            int64   `json:"id"`
	PatientID     int64   `json:"patient_id" validate:"required,gt=0"`
	DoctorID      int64   `json:"doctor_id" validate:"required,gt=0"`
	AppointmentID *int64  `json:"appointment_id" validate:"omitempty,gt=0"`
	MedicineID    int64   `json:"medicine_id" validate:"required,gt=0"`
	Dosage        string  `json:"dosage" validate:"required,max=255"`
	ExpiryDate    *string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	Notes         string  `json:"notes"`
	Status        string  `json:"status" validate:"omitempty,oneof=ACTIVE COMPLETED CANCELLED EXPIRED"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID               int64                    `json:"id"`
	PatientID        int64                    `json:"patient_id"`
	DoctorID         int64                    `json:"doctor_id"`
	AppointmentID    *int64                   `json:"appointment_id,omitempty"`
	MedicineID       int64                    `json:"medicine_id"`
	Medicine         *MedicineSummaryResponse `json:"medicine,omitempty"`
	Dosage           string                   `json:"dosage"`
	PrescriptionDate time.Time                `json:"prescription_date"`
	ExpiryDate       *string                  `json:"expiry_date,omitempty"`
	Notes            string                   `json:"notes,omitempty"`
	Status           string                   `json:"status"`
	IsValid          bool                     `json:"is_valid"`
	IsNearingExpiry  bool                     `json:"is_nearing_expiry"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}
