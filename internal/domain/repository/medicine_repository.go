package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type MedicineRepository interface {
	Save(db *gorm.DB, medicine *entity.Medicine) error
	FindActive(db *gorm.DB) ([]entity.Medicine, error)
	FindActiveByID(db *gorm.DB, id int64) (*entity.Medicine, error)
	FindActiveByCode(db *gorm.DB, code string) (*entity.Medicine, error)
	FindActiveByName(db *gorm.DB, name string) ([]entity.Medicine, error)
	FindActiveByFilter(db *gorm.DB, filter *entity.MedicineFilter) ([]entity.Medicine, error)
	FindNewest(db *gorm.DB, limit int) ([]entity.Medicine, error)
	ExistsByID(db *gorm.DB, id int64) (bool, error)
	SoftDelete(db *gorm.DB, id int64) error
}

type AttributeRepository interface {
	Save(db *gorm.DB, attribute *entity.Attribute) error
	FindActive(db *gorm.DB) ([]entity.Attribute, error)
	FindActiveByID(db *gorm.DB, id int64) (*entity.Attribute, error)
	FindByMedicineID(db *gorm.DB, medicineID int64) ([]entity.Attribute, error)
	FindByMedicineIDs(db *gorm.DB, medicineIDs []int64) (map[int64][]entity.Attribute, error)
	ExistsByID(db *gorm.DB, id int64) (bool, error)
	SoftDelete(db *gorm.DB, id int64) error
	SoftDeleteByMedicineID(db *gorm.DB, medicineID int64) (int64, error)
}

type MedicineMediaRepository interface {
	Save(db *gorm.DB, media *entity.MedicineMedia) error
	FindByMedicineID(db *gorm.DB, medicineID int64) ([]entity.MedicineMedia, error)
	FindMainImageByMedicineID(db *gorm.DB, medicineID int64) (*entity.MedicineMedia, error)
}

type MedicineCategoryRepository interface {
	Create(db *gorm.DB, link *entity.MedicineCategory) error
	FindLinkedCategoryIDs(db *gorm.DB, medicineID int64) ([]int64, error)
	FindCategoriesByMedicineID(db *gorm.DB, medicineID int64) ([]entity.Category, error)
}

type BrandRepository interface {
	FindActive(db *gorm.DB) ([]entity.Brand, error)
	FindActiveByID(db *gorm.DB, id int64) (*entity.Brand, error)
}

type CategoryRepository interface {
	FindActive(db *gorm.DB) ([]entity.Category, error)
	FindActiveByID(db *gorm.DB, id int64) (*entity.Category, error)
}
