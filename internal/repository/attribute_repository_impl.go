package repository

import (
	"time"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type attributeRepository struct{}

func NewAttributeRepository() domainRepo.AttributeRepository {
	return &attributeRepository{}
}

func (r *attributeRepository) Save(db *gorm.DB, attribute *entity.Attribute) error {
	return db.Omit(clause.Associations).Save(attribute).Error
}

func (r *attributeRepository) FindActive(db *gorm.DB) ([]entity.Attribute, error) {
	var attributes []entity.Attribute
	if err := db.Scopes(notDeleted).Order("id ASC").Find(&attributes).Error; err != nil {
		return nil, err
	}
	return attributes, nil
}

func (r *attributeRepository) FindActiveByID(db *gorm.DB, id int64) (*entity.Attribute, error) {
	var attribute entity.Attribute
	err := db.Scopes(notDeleted).Where("id = ?", id).First(&attribute).Error
	if err != nil {
		return nil, firstOrNil(err)
	}
	return &attribute, nil
}

func (r *attributeRepository) FindByMedicineID(db *gorm.DB, medicineID int64) ([]entity.Attribute, error) {
	var attributes []entity.Attribute
	err := db.Scopes(notDeleted).
		Where("medicine_id = ?", medicineID).
		Order("id ASC").
		Find(&attributes).Error
	if err != nil {
		return nil, err
	}
	return attributes, nil
}

// FindByMedicineIDs loads the active attributes of several medicines in one
// query, grouped by medicine id.
func (r *attributeRepository) FindByMedicineIDs(db *gorm.DB, medicineIDs []int64) (map[int64][]entity.Attribute, error) {
	grouped := make(map[int64][]entity.Attribute, len(medicineIDs))
	if len(medicineIDs) == 0 {
		return grouped, nil
	}

	var attributes []entity.Attribute
	err := db.Scopes(notDeleted).
		Where("medicine_id IN ?", medicineIDs).
		Order("id ASC").
		Find(&attributes).Error
	if err != nil {
		return nil, err
	}

	for _, attribute := range attributes {
		grouped[attribute.MedicineID] = append(grouped[attribute.MedicineID], attribute)
	}
	return grouped, nil
}

func (r *attributeRepository) ExistsByID(db *gorm.DB, id int64) (bool, error) {
	var count int64
	err := db.Model(&entity.Attribute{}).Scopes(notDeleted).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *attributeRepository) SoftDelete(db *gorm.DB, id int64) error {
	return db.Model(&entity.Attribute{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(entity.SoftDeleteColumns(time.Now())).Error
}

func (r *attributeRepository) SoftDeleteByMedicineID(db *gorm.DB, medicineID int64) (int64, error) {
	result := db.Model(&entity.Attribute{}).
		Where("medicine_id = ? AND is_deleted = ?", medicineID, false).
		Updates(entity.SoftDeleteColumns(time.Now()))
	return result.RowsAffected, result.Error
}
