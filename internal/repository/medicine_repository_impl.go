package repository

import (
	"strings"
	"time"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type medicineRepository struct{}

func NewMedicineRepository() domainRepo.MedicineRepository {
	return &medicineRepository{}
}

func (r *medicineRepository) Save(db *gorm.DB, medicine *entity.Medicine) error {
	return db.Omit(clause.Associations).Save(medicine).Error
}

func (r *medicineRepository) FindActive(db *gorm.DB) ([]entity.Medicine, error) {
	var medicines []entity.Medicine
	err := db.Scopes(notDeleted).Preload("Brand").Order("id ASC").Find(&medicines).Error
	if err != nil {
		return nil, err
	}
	return medicines, nil
}

func (r *medicineRepository) FindActiveByID(db *gorm.DB, id int64) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := db.Scopes(notDeleted).Preload("Brand").Where("id = ?", id).First(&medicine).Error
	if err != nil {
		return nil, firstOrNil(err)
	}
	return &medicine, nil
}

func (r *medicineRepository) FindActiveByCode(db *gorm.DB, code string) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := db.Scopes(notDeleted).Preload("Brand").Where("code = ?", code).First(&medicine).Error
	if err != nil {
		return nil, firstOrNil(err)
	}
	return &medicine, nil
}

func (r *medicineRepository) FindActiveByName(db *gorm.DB, name string) ([]entity.Medicine, error) {
	var medicines []entity.Medicine
	err := db.Scopes(notDeleted, nameContains(name)).Preload("Brand").
		Order("id ASC").
		Find(&medicines).Error
	if err != nil {
		return nil, err
	}
	return medicines, nil
}

// FindActiveByFilter applies the name, brand and category parts of a search.
// Results are ordered by id.
func (r *medicineRepository) FindActiveByFilter(db *gorm.DB, filter *entity.MedicineFilter) ([]entity.Medicine, error) {
	query := db.Model(&entity.Medicine{}).Scopes(notDeleted).Preload("Brand")

	if filter != nil {
		if name := strings.TrimSpace(filter.Name); name != "" {
			query = query.Scopes(nameContains(name))
		}
		if filter.BrandID != nil {
			query = query.Where("brand_id = ?", *filter.BrandID)
		}
		if filter.CategoryID != nil {
			linked := db.Model(&entity.MedicineCategory{}).
				Select("medicine_id").
				Where("category_id = ? AND is_deleted = ?", *filter.CategoryID, false)
			query = query.Where("id IN (?)", linked)
		}
	}

	var medicines []entity.Medicine
	if err := query.Order("id ASC").Find(&medicines).Error; err != nil {
		return nil, err
	}
	return medicines, nil
}

func (r *medicineRepository) FindNewest(db *gorm.DB, limit int) ([]entity.Medicine, error) {
	var medicines []entity.Medicine
	err := db.Scopes(notDeleted).Preload("Brand").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&medicines).Error
	if err != nil {
		return nil, err
	}
	return medicines, nil
}

func (r *medicineRepository) ExistsByID(db *gorm.DB, id int64) (bool, error) {
	var count int64
	err := db.Model(&entity.Medicine{}).Scopes(notDeleted).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *medicineRepository) SoftDelete(db *gorm.DB, id int64) error {
	return db.Model(&entity.Medicine{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(entity.SoftDeleteColumns(time.Now())).Error
}
