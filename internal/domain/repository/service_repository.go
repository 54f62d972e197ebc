package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type ServiceRepository interface {
	Save(db *gorm.DB, service *entity.Service) error
	FindActive(db *gorm.DB) ([]entity.Service, error)
	FindActiveByID(db *gorm.DB, id int64) (*entity.Service, error)
	FindActiveByName(db *gorm.DB, name string) ([]entity.Service, error)
	ExistsByID(db *gorm.DB, id int64) (bool, error)
	SoftDelete(db *gorm.DB, id int64) error
}

type DoctorServiceRepository interface {
	Create(db *gorm.DB, link *entity.DoctorService) error
	Restore(db *gorm.DB, link *entity.DoctorService) error
	FindActiveByServiceID(db *gorm.DB, serviceID int64) ([]entity.DoctorService, error)
	FindByServiceIDIncludingDeleted(db *gorm.DB, serviceID int64) ([]entity.DoctorService, error)
	SoftDeleteByIDs(db *gorm.DB, ids []int64) error
}
