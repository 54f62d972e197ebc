package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Save(db *gorm.DB, prescription *entity.Prescription) error
	FindActive(db *gorm.DB) ([]entity.Prescription, error)
	FindActiveByID(db *gorm.DB, id int64) (*entity.Prescription, error)
	FindByPatientID(db *gorm.DB, patientID int64) ([]entity.Prescription, error)
	FindByDoctorID(db *gorm.DB, doctorID int64) ([]entity.Prescription, error)
	FindByAppointmentID(db *gorm.DB, appointmentID int64) ([]entity.Prescription, error)
	ExistsByID(db *gorm.DB, id int64) (bool, error)
	SoftDelete(db *gorm.DB, id int64) error
}
