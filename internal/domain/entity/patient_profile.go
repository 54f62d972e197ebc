package entity

import (
	"time"
)

// PatientProfile represents patient-specific profile data
type PatientProfile struct {
	BaseEntity
	UserID      int64      `gorm:"not null;uniqueIndex" json:"user_id"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Address     string     `gorm:"type:text" json:"address,omitempty"`
	BloodType   string     `gorm:"type:varchar(5)" json:"blood_type,omitempty"`
	Allergies   string     `gorm:"type:text" json:"allergies,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// Gender constants
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)
