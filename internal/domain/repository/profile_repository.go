package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	Create(db *gorm.DB, profile *entity.DoctorProfile) error
	FindActiveByID(db *gorm.DB, id int64) (*entity.DoctorProfile, error)
	FindByUserID(db *gorm.DB, userID int64) (*entity.DoctorProfile, error)
}

type PatientProfileRepository interface {
	Create(db *gorm.DB, profile *entity.PatientProfile) error
	FindActiveByID(db *gorm.DB, id int64) (*entity.PatientProfile, error)
	FindByUserID(db *gorm.DB, userID int64) (*entity.PatientProfile, error)
}
