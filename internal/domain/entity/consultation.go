package entity

// Consultation records the outcome of an appointment
type Consultation struct {
	BaseEntity
	AppointmentID int64  `gorm:"not null;uniqueIndex" json:"appointment_id"`
	Symptoms      string `gorm:"type:text" json:"symptoms,omitempty"`
	Diagnosis     string `gorm:"type:text" json:"diagnosis,omitempty"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`
}

func (Consultation) TableName() string {
	return "consultations"
}
