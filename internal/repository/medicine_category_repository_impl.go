package repository

import (
	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type medicineCategoryRepository struct{}

func NewMedicineCategoryRepository() domainRepo.MedicineCategoryRepository {
	return &medicineCategoryRepository{}
}

func (r *medicineCategoryRepository) Create(db *gorm.DB, link *entity.MedicineCategory) error {
	return db.Omit(clause.Associations).Create(link).Error
}

func (r *medicineCategoryRepository) FindLinkedCategoryIDs(db *gorm.DB, medicineID int64) ([]int64, error) {
	var ids []int64
	err := db.Model(&entity.MedicineCategory{}).Scopes(notDeleted).
		Where("medicine_id = ?", medicineID).
		Pluck("category_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindCategoriesByMedicineID returns the active categories reached through
// the medicine's active links.
func (r *medicineCategoryRepository) FindCategoriesByMedicineID(db *gorm.DB, medicineID int64) ([]entity.Category, error) {
	var categories []entity.Category
	err := db.Model(&entity.Category{}).
		Joins("JOIN medicine_categories mc ON mc.category_id = categories.id").
		Where("mc.medicine_id = ? AND mc.is_deleted = ? AND categories.is_deleted = ?", medicineID, false, false).
		Order("mc.id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
