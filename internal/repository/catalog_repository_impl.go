package repository

import (
	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type brandRepository struct{}

func NewBrandRepository() domainRepo.BrandRepository {
	return &brandRepository{}
}

func (r *brandRepository) FindActive(db *gorm.DB) ([]entity.Brand, error) {
	var brands []entity.Brand
	if err := db.Scopes(notDeleted).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *brandRepository) FindActiveByID(db *gorm.DB, id int64) (*entity.Brand, error) {
	var brand entity.Brand
	if err := db.Scopes(notDeleted).Where("id = ?", id).First(&brand).Error; err != nil {
		return nil, firstOrNil(err)
	}
	return &brand, nil
}

type categoryRepository struct{}

func NewCategoryRepository() domainRepo.CategoryRepository {
	return &categoryRepository{}
}

func (r *categoryRepository) FindActive(db *gorm.DB) ([]entity.Category, error) {
	var categories []entity.Category
	if err := db.Scopes(notDeleted).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindActiveByID(db *gorm.DB, id int64) (*entity.Category, error) {
	var category entity.Category
	if err := db.Scopes(notDeleted).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, firstOrNil(err)
	}
	return &category, nil
}
