package entity

import "time"

// PrescriptionStatus represents the status of a prescription
type PrescriptionStatus string

const (
	PrescriptionStatusActive    PrescriptionStatus = "ACTIVE"
	PrescriptionStatusCompleted PrescriptionStatus = "COMPLETED"
	PrescriptionStatusCancelled PrescriptionStatus = "CANCELLED"
	PrescriptionStatusExpired   PrescriptionStatus = "EXPIRED"
)

// PrescriptionNearingExpiryWindow is how far ahead an active prescription's
// expiry date counts as nearing.
const PrescriptionNearingExpiryWindow = 7 * 24 * time.Hour

// ParsePrescriptionStatus returns the status matching s exactly
func ParsePrescriptionStatus(s string) (PrescriptionStatus, bool) {
	switch PrescriptionStatus(s) {
	case PrescriptionStatusActive, PrescriptionStatusCompleted, PrescriptionStatusCancelled, PrescriptionStatusExpired:
		return PrescriptionStatus(s), true
	}
	return "", false
}

// Prescription is a doctor-issued medicine order
type Prescription struct {
	BaseEntity
	PatientID        int64              `gorm:"not null;index" json:"patient_id"`
	DoctorID         int64              `gorm:"not null;index" json:"doctor_id"`
	AppointmentID    *int64             `gorm:"index" json:"appointment_id,omitempty"`
	MedicineID       int64              `gorm:"not null;index" json:"medicine_id"`
	Dosage           string             `gorm:"type:varchar(255);not null" json:"dosage"`
	PrescriptionDate time.Time          `gorm:"not null" json:"prescription_date"`
	ExpiryDate       *time.Time         `gorm:"type:date" json:"expiry_date,omitempty"`
	Notes            string             `gorm:"type:text" json:"notes,omitempty"`
	Status           PrescriptionStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	// Relationships
	Medicine Medicine `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// IsValid reports whether the prescription is active and not past its expiry
func (p *Prescription) IsValid(now time.Time) bool {
	if p.Status != PrescriptionStatusActive {
		return false
	}
	return p.ExpiryDate == nil || !p.ExpiryDate.Before(startOfDay(now))
}

// IsNearingExpiry reports whether a valid prescription expires within
// PrescriptionNearingExpiryWindow
func (p *Prescription) IsNearingExpiry(now time.Time) bool {
	if p.ExpiryDate == nil || !p.IsValid(now) {
		return false
	}
	return !p.ExpiryDate.After(startOfDay(now).Add(PrescriptionNearingExpiryWindow))
}
