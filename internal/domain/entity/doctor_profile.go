package entity

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	BaseEntity
	UserID          int64  `gorm:"not null;uniqueIndex" json:"user_id"`
	LicenseNumber   string `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Specialization  string `gorm:"type:varchar(100);not null;index" json:"specialization"`
	ExperienceYears int    `gorm:"not null;default:0" json:"experience_years"`
	Biography       string `gorm:"type:text" json:"biography,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
