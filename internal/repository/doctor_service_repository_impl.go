package repository

import (
	"time"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorServiceRepository struct{}

func NewDoctorServiceRepository() domainRepo.DoctorServiceRepository {
	return &doctorServiceRepository{}
}

func (r *doctorServiceRepository) Create(db *gorm.DB, link *entity.DoctorService) error {
	return db.Omit(clause.Associations).Create(link).Error
}

// Restore reactivates a soft-deleted link in place
func (r *doctorServiceRepository) Restore(db *gorm.DB, link *entity.DoctorService) error {
	err := db.Model(&entity.DoctorService{}).
		Where("id = ?", link.ID).
		Updates(map[string]interface{}{
			"is_deleted": false,
			"deleted_at": nil,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return err
	}
	link.Restore()
	return nil
}

func (r *doctorServiceRepository) FindActiveByServiceID(db *gorm.DB, serviceID int64) ([]entity.DoctorService, error) {
	var links []entity.DoctorService
	err := db.Scopes(notDeleted).
		Preload("Doctor.User").
		Where("service_id = ?", serviceID).
		Order("id ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// FindByServiceIDIncludingDeleted returns every link of the service,
// soft-deleted ones included, for reconciliation.
func (r *doctorServiceRepository) FindByServiceIDIncludingDeleted(db *gorm.DB, serviceID int64) ([]entity.DoctorService, error) {
	var links []entity.DoctorService
	err := db.Where("service_id = ?", serviceID).Order("id ASC").Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *doctorServiceRepository) SoftDeleteByIDs(db *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Model(&entity.DoctorService{}).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Updates(entity.SoftDeleteColumns(time.Now())).Error
}
