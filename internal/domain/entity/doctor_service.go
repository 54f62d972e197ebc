package entity

// DoctorService links a doctor to a service. The pair is unique; a removed
// link is soft-deleted and restored when the doctor is added back.
type DoctorService struct {
	BaseEntity
	DoctorID  int64 `gorm:"not null;uniqueIndex:idx_doctor_service_pair" json:"doctor_id"`
	ServiceID int64 `gorm:"not null;uniqueIndex:idx_doctor_service_pair;index" json:"service_id"`

	// Relationships
	Doctor  DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Service Service       `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (DoctorService) TableName() string {
	return "doctor_services"
}
