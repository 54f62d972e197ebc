package repository

import (
	"time"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type prescriptionRepository struct{}

func NewPrescriptionRepository() domainRepo.PrescriptionRepository {
	return &prescriptionRepository{}
}

func (r *prescriptionRepository) Save(db *gorm.DB, prescription *entity.Prescription) error {
	return db.Omit(clause.Associations).Save(prescription).Error
}

func (r *prescriptionRepository) FindActive(db *gorm.DB) ([]entity.Prescription, error) {
	return r.find(db.Scopes(notDeleted))
}

func (r *prescriptionRepository) FindActiveByID(db *gorm.DB, id int64) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := db.Preload("Medicine").Scopes(notDeleted).Where("id = ?", id).First(&prescription).Error
	if err != nil {
		return nil, firstOrNil(err)
	}
	return &prescription, nil
}

func (r *prescriptionRepository) FindByPatientID(db *gorm.DB, patientID int64) ([]entity.Prescription, error) {
	return r.find(db.Scopes(notDeleted).Where("patient_id = ?", patientID))
}

func (r *prescriptionRepository) FindByDoctorID(db *gorm.DB, doctorID int64) ([]entity.Prescription, error) {
	return r.find(db.Scopes(notDeleted).Where("doctor_id = ?", doctorID))
}

func (r *prescriptionRepository) FindByAppointmentID(db *gorm.DB, appointmentID int64) ([]entity.Prescription, error) {
	return r.find(db.Scopes(notDeleted).Where("appointment_id = ?", appointmentID))
}

func (r *prescriptionRepository) ExistsByID(db *gorm.DB, id int64) (bool, error) {
	var count int64
	err := db.Model(&entity.Prescription{}).Scopes(notDeleted).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *prescriptionRepository) SoftDelete(db *gorm.DB, id int64) error {
	return db.Model(&entity.Prescription{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(entity.SoftDeleteColumns(time.Now())).Error
}

func (r *prescriptionRepository) find(query *gorm.DB) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := query.Preload("Medicine").
		Order("prescription_date DESC").Order("id DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}
