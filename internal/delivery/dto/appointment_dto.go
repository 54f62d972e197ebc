package dto

import "time"

// Request DTOs

type SaveAppointmentRequest struct {
	ID               int64  `json:"id"`
	PatientID        int64  `json:"patient_id" validate:"required,gt=0"`
	DoctorID         int64  `json:"doctor_id" validate:"required,gt=0"`
	ServiceBookingID int64  `json:"service_booking_id" validate:"required,gt=0"`
	AppointmentDate  string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	AppointmentTime  string `json:"appointment_time" validate:"required,datetime=15:04"`
	Status           string `json:"status" validate:"omitempty,oneof=SCHEDULED CONFIRMED COMPLETED CANCELLED NO_SHOW"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type SaveConsultationRequest struct {
	Symptoms  string `json:"symptoms"`
	Diagnosis string `json:"diagnosis" validate:"required"`
	Notes     string `json:"notes"`
}

// Response DTOs

type ConsultationResponse struct {
	ID            int64     `json:"id"`
	AppointmentID int64     `json:"appointment_id"`
	Symptoms      string    `json:"symptoms,omitempty"`
	Diagnosis     string    `json:"diagnosis,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AppointmentResponse struct {
	ID               int64                  `json:"id"`
	PatientID        int64                  `json:"patient_id"`
	PatientName      string                 `json:"patient_name,omitempty"`
	DoctorID         int64                  `json:"doctor_id"`
	DoctorName       string                 `json:"doctor_name,omitempty"`
	ServiceBookingID int64                  `json:"service_booking_id"`
	AppointmentDate  string                 `json:"appointment_date"`
	AppointmentTime  string                 `json:"appointment_time"`
	Status           string                 `json:"status"`
	Consultation     *ConsultationResponse  `json:"consultation,omitempty"`
	Prescriptions    []PrescriptionResponse `json:"prescriptions,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}
