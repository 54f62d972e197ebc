package repository

import (
	"time"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type serviceRepository struct{}

func NewServiceRepository() domainRepo.ServiceRepository {
	return &serviceRepository{}
}

func (r *serviceRepository) Save(db *gorm.DB, service *entity.Service) error {
	return db.Omit(clause.Associations).Save(service).Error
}

func (r *serviceRepository) FindActive(db *gorm.DB) ([]entity.Service, error) {
	var services []entity.Service
	if err := db.Scopes(notDeleted).Order("id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) FindActiveByID(db *gorm.DB, id int64) (*entity.Service, error) {
	var service entity.Service
	if err := db.Scopes(notDeleted).Where("id = ?", id).First(&service).Error; err != nil {
		return nil, firstOrNil(err)
	}
	return &service, nil
}

func (r *serviceRepository) FindActiveByName(db *gorm.DB, name string) ([]entity.Service, error) {
	var services []entity.Service
	err := db.Scopes(notDeleted, nameContains(name)).
		Order("id ASC").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) ExistsByID(db *gorm.DB, id int64) (bool, error) {
	var count int64
	err := db.Model(&entity.Service{}).Scopes(notDeleted).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *serviceRepository) SoftDelete(db *gorm.DB, id int64) error {
	return db.Model(&entity.Service{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(entity.SoftDeleteColumns(time.Now())).Error
}
