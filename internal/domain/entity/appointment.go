package entity

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SHOW"
)

// ParseAppointmentStatus returns the status matching s exactly
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return AppointmentStatus(s), true
	}
	return "", false
}

// Appointment is a scheduled meeting between a patient and a doctor, tied to
// exactly one service booking
type Appointment struct {
	BaseEntity
	PatientID        int64             `gorm:"not null;index" json:"patient_id"`
	DoctorID         int64             `gorm:"not null;index" json:"doctor_id"`
	ServiceBookingID int64             `gorm:"not null;uniqueIndex:idx_appointments_active_service_booking,where:is_deleted = false" json:"service_booking_id"`
	AppointmentDate  time.Time         `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime  string            `gorm:"type:varchar(8);not null" json:"appointment_time"`
	Status           AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	// Relationships
	Patient       PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor        DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Consultation  *Consultation  `gorm:"foreignKey:AppointmentID" json:"consultation,omitempty"`
	Prescriptions []Prescription `gorm:"foreignKey:AppointmentID" json:"prescriptions,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}
