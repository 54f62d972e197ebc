package repository

import (
	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type medicineMediaRepository struct{}

func NewMedicineMediaRepository() domainRepo.MedicineMediaRepository {
	return &medicineMediaRepository{}
}

func (r *medicineMediaRepository) Save(db *gorm.DB, media *entity.MedicineMedia) error {
	return db.Omit(clause.Associations).Save(media).Error
}

func (r *medicineMediaRepository) FindByMedicineID(db *gorm.DB, medicineID int64) ([]entity.MedicineMedia, error) {
	var medias []entity.MedicineMedia
	err := db.Scopes(notDeleted).
		Where("medicine_id = ?", medicineID).
		Order("id ASC").
		Find(&medias).Error
	if err != nil {
		return nil, err
	}
	return medias, nil
}

func (r *medicineMediaRepository) FindMainImageByMedicineID(db *gorm.DB, medicineID int64) (*entity.MedicineMedia, error) {
	var media entity.MedicineMedia
	err := db.Scopes(notDeleted).
		Where("medicine_id = ? AND main_image = ?", medicineID, true).
		First(&media).Error
	if err != nil {
		return nil, firstOrNil(err)
	}
	return &media, nil
}
