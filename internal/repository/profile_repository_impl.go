package repository

import (
	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Omit(clause.Associations).Create(profile).Error
}

func (r *doctorProfileRepository) FindActiveByID(db *gorm.DB, id int64) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	if err := db.Preload("User").Scopes(notDeleted).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, firstOrNil(err)
	}
	return &profile, nil
}

func (r *doctorProfileRepository) FindByUserID(db *gorm.DB, userID int64) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	if err := db.Preload("User").Scopes(notDeleted).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, firstOrNil(err)
	}
	return &profile, nil
}

type patientProfileRepository struct{}

func NewPatientProfileRepository() domainRepo.PatientProfileRepository {
	return &patientProfileRepository{}
}

func (r *patientProfileRepository) Create(db *gorm.DB, profile *entity.PatientProfile) error {
	return db.Omit(clause.Associations).Create(profile).Error
}

func (r *patientProfileRepository) FindActiveByID(db *gorm.DB, id int64) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	if err := db.Preload("User").Scopes(notDeleted).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, firstOrNil(err)
	}
	return &profile, nil
}

func (r *patientProfileRepository) FindByUserID(db *gorm.DB, userID int64) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	if err := db.Preload("User").Scopes(notDeleted).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, firstOrNil(err)
	}
	return &profile, nil
}
