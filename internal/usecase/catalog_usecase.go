package usecase

import (
	"context"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CatalogUsecase exposes the read-only brand and category lists
type CatalogUsecase interface {
	GetBrands(ctx context.Context) ([]dto.BrandResponse, error)
	GetCategories(ctx context.Context) ([]dto.CategoryResponse, error)
}

type catalogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	brandRepo    repository.BrandRepository
	categoryRepo repository.CategoryRepository
}

func NewCatalogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	brandRepo repository.BrandRepository,
	categoryRepo repository.CategoryRepository,
) CatalogUsecase {
	return &catalogUsecase{
		db:           db,
		log:          log,
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
	}
}

func (u *catalogUsecase) GetBrands(ctx context.Context) ([]dto.BrandResponse, error) {
	brands, err := u.brandRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find brands: %+v", err)
		return nil, err
	}
	return converter.BrandsToResponses(brands), nil
}

func (u *catalogUsecase) GetCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := u.categoryRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find categories: %+v", err)
		return nil, err
	}
	return converter.CategoriesToResponses(categories), nil
}
