package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/domain/storage"
	"clinic-backend/internal/service"
	"clinic-backend/pkg/metrics"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrBrandNotFound    = errors.New("brand not found")
	ErrCategoryNotFound = errors.New("category not found")
)

const newestMedicinesLimit = 10

// Search sort keys
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
)

type MedicineUsecase interface {
	SaveWithDetails(ctx context.Context, caller *entity.Caller, req *dto.SaveMedicineRequest, files []*storage.File, categoryIDs []int64, mainImageIndex *int) (*dto.MedicineWithDetailsResponse, error)
	Search(ctx context.Context, req *dto.MedicineSearchRequest) ([]dto.MedicineResponse, error)
	GetAll(ctx context.Context) ([]dto.MedicineResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.MedicineResponse, error)
	GetDetails(ctx context.Context, id int64) (*dto.MedicineDetailsResponse, error)
	GetByCode(ctx context.Context, code string) (*dto.MedicineResponse, error)
	FindByName(ctx context.Context, name string) ([]dto.MedicineResponse, error)
	GetNewest(ctx context.Context) ([]dto.MedicineResponse, error)
	DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error)
}

type medicineUsecase struct {
	db                   *gorm.DB
	log                  *logrus.Logger
	medicineRepo         repository.MedicineRepository
	attributeRepo        repository.AttributeRepository
	mediaRepo            repository.MedicineMediaRepository
	medicineCategoryRepo repository.MedicineCategoryRepository
	brandRepo            repository.BrandRepository
	categoryRepo         repository.CategoryRepository
	mediaService         service.MediaService
	auditService         service.AuditService
	metrics              *metrics.Collector
}

func NewMedicineUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	medicineRepo repository.MedicineRepository,
	attributeRepo repository.AttributeRepository,
	mediaRepo repository.MedicineMediaRepository,
	medicineCategoryRepo repository.MedicineCategoryRepository,
	brandRepo repository.BrandRepository,
	categoryRepo repository.CategoryRepository,
	mediaService service.MediaService,
	auditService service.AuditService,
	collector *metrics.Collector,
) MedicineUsecase {
	return &medicineUsecase{
		db:                   db,
		log:                  log,
		medicineRepo:         medicineRepo,
		attributeRepo:        attributeRepo,
		mediaRepo:            mediaRepo,
		medicineCategoryRepo: medicineCategoryRepo,
		brandRepo:            brandRepo,
		categoryRepo:         categoryRepo,
		mediaService:         mediaService,
		auditService:         auditService,
		metrics:              collector,
	}
}

// SaveWithDetails inserts or updates a medicine together with its attributes,
// category links and images in one transaction.
//
// Flow:
// 1. Insert or update the base row (brand must exist when given)
// 2. Upsert every attribute
// 3. Link categories not linked yet
// 4. Demote the current main image when a new one is chosen, upload images
// 5. Re-read the composed medicine
// Any failure rolls the transaction back and deletes the objects uploaded so far.
func (u *medicineUsecase) SaveWithDetails(
	ctx context.Context,
	caller *entity.Caller,
	req *dto.SaveMedicineRequest,
	files []*storage.File,
	categoryIDs []int64,
	mainImageIndex *int,
) (*dto.MedicineWithDetailsResponse, error) {
	uploads := u.mediaService.NewSession()

	result, err := u.saveWithDetails(ctx, caller, req, files, categoryIDs, mainImageIndex, uploads)
	if err != nil {
		uploads.Compensate(context.WithoutCancel(ctx))
		u.log.Warnf("Failed to save medicine with details: %+v", err)
		return nil, fmt.Errorf("error saving medicine with details: %w", err)
	}

	u.metrics.MedicinesSavedTotal.Inc()
	u.log.Infof("Medicine %d saved with %d attribute(s), %d category link(s), %d image(s)",
		result.Medicine.ID, len(result.Attributes), len(result.Categories), len(result.Medias))
	return result, nil
}

func (u *medicineUsecase) saveWithDetails(
	ctx context.Context,
	caller *entity.Caller,
	req *dto.SaveMedicineRequest,
	files []*storage.File,
	categoryIDs []int64,
	mainImageIndex *int,
	uploads *service.UploadSession,
) (*dto.MedicineWithDetailsResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Step 1: base row
	medicine := &entity.Medicine{}
	var oldValue *entity.Medicine
	if req.ID != 0 {
		existing, err := u.medicineRepo.FindActiveByID(tx, req.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: %d", ErrMedicineNotFound, req.ID)
		}
		snapshot := *existing
		oldValue = &snapshot
		medicine = existing
	}

	if req.BrandID != nil {
		brand, err := u.brandRepo.FindActiveByID(tx, *req.BrandID)
		if err != nil {
			return nil, err
		}
		if brand == nil {
			return nil, fmt.Errorf("%w: %d", ErrBrandNotFound, *req.BrandID)
		}
	}

	medicine.Code = strings.TrimSpace(req.Code)
	medicine.Name = strings.TrimSpace(req.Name)
	medicine.Description = req.Description
	medicine.Origin = req.Origin
	medicine.IsPrescriptionRequired = req.IsPrescriptionRequired
	medicine.UsageInstruction = req.UsageInstruction
	medicine.DosageInstruction = req.DosageInstruction
	medicine.BrandID = req.BrandID
	medicine.Brand = nil

	if err := u.medicineRepo.Save(tx, medicine); err != nil {
		return nil, err
	}

	// Step 2: attributes
	savedAttributes := make([]entity.Attribute, 0, len(req.Attributes))
	for i := range req.Attributes {
		attribute, err := upsertAttribute(tx, u.attributeRepo, medicine.ID, &req.Attributes[i])
		if err != nil {
			return nil, err
		}
		savedAttributes = append(savedAttributes, *attribute)
	}

	// Step 3: categories, only the ones not linked yet
	if err := u.linkCategories(tx, medicine.ID, categoryIDs); err != nil {
		return nil, err
	}

	// Step 4: images
	savedMedias, err := u.saveImages(ctx, tx, medicine.ID, files, mainImageIndex, uploads)
	if err != nil {
		return nil, err
	}

	if oldValue == nil {
		err = u.auditService.LogCreate(ctx, tx, service.CallerUserID(caller), entity.AuditActionMedicineSave, "medicine", medicine.ID, medicine)
	} else {
		err = u.auditService.LogUpdate(ctx, tx, service.CallerUserID(caller), entity.AuditActionMedicineSave, "medicine", medicine.ID, oldValue, medicine)
	}
	if err != nil {
		return nil, err
	}

	// Step 5: re-read the composed medicine
	composed, err := u.medicineRepo.FindActiveByID(tx, medicine.ID)
	if err != nil {
		return nil, err
	}
	if composed == nil {
		return nil, fmt.Errorf("%w: %d", ErrMedicineNotFound, medicine.ID)
	}
	response, err := u.compose(tx, composed, nil, time.Now())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	// categories are reported only when the request touched them
	categories := []dto.CategoryResponse{}
	if len(categoryIDs) > 0 {
		categories = response.Categories
	}

	return &dto.MedicineWithDetailsResponse{
		Medicine:   *response,
		Medias:     converter.MediasToResponses(savedMedias),
		Categories: categories,
		Attributes: converter.AttributesToResponses(savedAttributes, time.Now()),
	}, nil
}

// linkCategories creates links for requested categories that are not linked
// yet
func (u *medicineUsecase) linkCategories(tx *gorm.DB, medicineID int64, categoryIDs []int64) error {
	linkedIDs, err := u.medicineCategoryRepo.FindLinkedCategoryIDs(tx, medicineID)
	if err != nil {
		return err
	}
	linked := make(map[int64]struct{}, len(linkedIDs))
	for _, id := range linkedIDs {
		linked[id] = struct{}{}
	}

	for _, categoryID := range uniqueIDs(categoryIDs) {
		if _, ok := linked[categoryID]; ok {
			continue
		}

		category, err := u.categoryRepo.FindActiveByID(tx, categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("%w: %d", ErrCategoryNotFound, categoryID)
		}

		link := &entity.MedicineCategory{MedicineID: medicineID, CategoryID: categoryID}
		if err := u.medicineCategoryRepo.Create(tx, link); err != nil {
			return err
		}
	}
	return nil
}

// saveImages uploads the non-empty files in order. The file at mainImageIndex
// becomes the main image and the previous main image is demoted.
func (u *medicineUsecase) saveImages(
	ctx context.Context,
	tx *gorm.DB,
	medicineID int64,
	files []*storage.File,
	mainImageIndex *int,
	uploads *service.UploadSession,
) ([]entity.MedicineMedia, error) {
	mainIndex := -1
	if mainImageIndex != nil && *mainImageIndex >= 0 && *mainImageIndex < len(files) && !files[*mainImageIndex].IsEmpty() {
		mainIndex = *mainImageIndex
	}

	if mainIndex >= 0 {
		current, err := u.mediaRepo.FindMainImageByMedicineID(tx, medicineID)
		if err != nil {
			return nil, err
		}
		if current != nil {
			current.MainImage = false
			if err := u.mediaRepo.Save(tx, current); err != nil {
				return nil, err
			}
		}
	}

	saved := make([]entity.MedicineMedia, 0, len(files))
	for i, file := range files {
		if file.IsEmpty() {
			continue
		}

		url, err := uploads.Upload(ctx, file)
		if err != nil {
			return nil, err
		}

		media := &entity.MedicineMedia{
			MedicineID: medicineID,
			MediaURL:   url,
			MainImage:  i == mainIndex,
		}
		if err := u.mediaRepo.Save(tx, media); err != nil {
			return nil, err
		}
		saved = append(saved, *media)
	}
	return saved, nil
}

// Search filters the active medicines by name, brand and category in the
// store, then applies the price bound and the sort over their attributes.
func (u *medicineUsecase) Search(ctx context.Context, req *dto.MedicineSearchRequest) ([]dto.MedicineResponse, error) {
	db := u.db.WithContext(ctx)

	if code := strings.TrimSpace(req.Code); code != "" {
		medicine, err := u.medicineRepo.FindActiveByCode(db, code)
		if err != nil {
			u.log.Warnf("Failed to find medicine by code: %+v", err)
			return nil, err
		}
		if medicine == nil {
			return []dto.MedicineResponse{}, nil
		}
		return u.composeAll(db, []entity.Medicine{*medicine})
	}

	medicines, err := u.medicineRepo.FindActiveByFilter(db, &entity.MedicineFilter{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
	})
	if err != nil {
		u.log.Warnf("Failed to search medicines: %+v", err)
		return nil, err
	}

	attributes, err := u.attributeRepo.FindByMedicineIDs(db, medicineIDs(medicines))
	if err != nil {
		u.log.Warnf("Failed to load attributes for search: %+v", err)
		return nil, err
	}

	if req.MaxPrice != nil {
		medicines = filterByMaxPrice(medicines, attributes, *req.MaxPrice)
	}
	sortMedicines(medicines, attributes, req.SortBy)

	responses := make([]dto.MedicineResponse, 0, len(medicines))
	now := time.Now()
	for i := range medicines {
		response, err := u.compose(db, &medicines[i], attributes[medicines[i].ID], now)
		if err != nil {
			u.log.Warnf("Failed to compose medicine %d: %+v", medicines[i].ID, err)
			return nil, err
		}
		responses = append(responses, *response)
	}
	return responses, nil
}

// filterByMaxPrice keeps medicines with at least one attribute priced at or
// below the bound
func filterByMaxPrice(medicines []entity.Medicine, attributes map[int64][]entity.Attribute, bound decimal.Decimal) []entity.Medicine {
	filtered := make([]entity.Medicine, 0, len(medicines))
	for _, medicine := range medicines {
		for _, attribute := range attributes[medicine.ID] {
			if attribute.PriceOut.LessThanOrEqual(bound) {
				filtered = append(filtered, medicine)
				break
			}
		}
	}
	return filtered
}

// lowestPrice is the minimum attribute price_out, zero without attributes
func lowestPrice(attributes []entity.Attribute) decimal.Decimal {
	if len(attributes) == 0 {
		return decimal.Zero
	}
	lowest := attributes[0].PriceOut
	for _, attribute := range attributes[1:] {
		if attribute.PriceOut.LessThan(lowest) {
			lowest = attribute.PriceOut
		}
	}
	return lowest
}

// sortMedicines orders in place; unknown keys keep the store order
func sortMedicines(medicines []entity.Medicine, attributes map[int64][]entity.Attribute, sortBy string) {
	var less func(a, b entity.Medicine) bool

	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case SortPriceAsc:
		less = func(a, b entity.Medicine) bool {
			return lowestPrice(attributes[a.ID]).LessThan(lowestPrice(attributes[b.ID]))
		}
	case SortPriceDesc:
		less = func(a, b entity.Medicine) bool {
			return lowestPrice(attributes[a.ID]).GreaterThan(lowestPrice(attributes[b.ID]))
		}
	case SortNameAsc:
		less = func(a, b entity.Medicine) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortNameDesc:
		less = func(a, b entity.Medicine) bool {
			return strings.ToLower(a.Name) > strings.ToLower(b.Name)
		}
	default:
		return
	}

	sort.SliceStable(medicines, func(i, j int) bool {
		return less(medicines[i], medicines[j])
	})
}

func (u *medicineUsecase) GetAll(ctx context.Context) ([]dto.MedicineResponse, error) {
	db := u.db.WithContext(ctx)

	medicines, err := u.medicineRepo.FindActive(db)
	if err != nil {
		u.log.Warnf("Failed to find medicines: %+v", err)
		return nil, err
	}
	return u.composeAll(db, medicines)
}

func (u *medicineUsecase) GetByID(ctx context.Context, id int64) (*dto.MedicineResponse, error) {
	db := u.db.WithContext(ctx)

	medicine, err := u.medicineRepo.FindActiveByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find medicine %d: %+v", id, err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}
	return u.compose(db, medicine, nil, time.Now())
}

func (u *medicineUsecase) GetDetails(ctx context.Context, id int64) (*dto.MedicineDetailsResponse, error) {
	response, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.MedicineDetailsResponse{
		Medicine:   *response,
		Medias:     response.Medias,
		Categories: response.Categories,
	}, nil
}

func (u *medicineUsecase) GetByCode(ctx context.Context, code string) (*dto.MedicineResponse, error) {
	db := u.db.WithContext(ctx)

	medicine, err := u.medicineRepo.FindActiveByCode(db, strings.TrimSpace(code))
	if err != nil {
		u.log.Warnf("Failed to find medicine by code %s: %+v", code, err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}
	return u.compose(db, medicine, nil, time.Now())
}

func (u *medicineUsecase) FindByName(ctx context.Context, name string) ([]dto.MedicineResponse, error) {
	db := u.db.WithContext(ctx)

	medicines, err := u.medicineRepo.FindActiveByName(db, strings.TrimSpace(name))
	if err != nil {
		u.log.Warnf("Failed to find medicines by name: %+v", err)
		return nil, err
	}
	return u.composeAll(db, medicines)
}

// GetNewest returns the most recently created active medicines
func (u *medicineUsecase) GetNewest(ctx context.Context) ([]dto.MedicineResponse, error) {
	db := u.db.WithContext(ctx)

	medicines, err := u.medicineRepo.FindNewest(db, newestMedicinesLimit)
	if err != nil {
		u.log.Warnf("Failed to find newest medicines: %+v", err)
		return nil, err
	}
	return u.composeAll(db, medicines)
}

// DeleteByIDs soft-deletes each existing medicine together with its attributes
func (u *medicineUsecase) DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	result := &dto.DeleteResponse{}
	for _, id := range uniqueIDs(ids) {
		medicine, err := u.medicineRepo.FindActiveByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find medicine %d: %+v", id, err)
			return nil, err
		}
		if medicine == nil {
			result.NotFound = append(result.NotFound, id)
			continue
		}

		if err := u.medicineRepo.SoftDelete(tx, id); err != nil {
			u.log.Warnf("Failed to delete medicine %d: %+v", id, err)
			return nil, err
		}
		if _, err := u.attributeRepo.SoftDeleteByMedicineID(tx, id); err != nil {
			u.log.Warnf("Failed to delete attributes of medicine %d: %+v", id, err)
			return nil, err
		}
		if err := u.auditService.LogDelete(ctx, tx, service.CallerUserID(caller), entity.AuditActionMedicineDelete, "medicine", id, medicine); err != nil {
			return nil, err
		}
		result.Deleted++
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Soft-deleted %d medicine(s)", result.Deleted)
	return result, nil
}

// composeAll loads attributes in one query and categories and media per medicine
func (u *medicineUsecase) composeAll(db *gorm.DB, medicines []entity.Medicine) ([]dto.MedicineResponse, error) {
	attributes, err := u.attributeRepo.FindByMedicineIDs(db, medicineIDs(medicines))
	if err != nil {
		u.log.Warnf("Failed to load attributes: %+v", err)
		return nil, err
	}

	now := time.Now()
	responses := make([]dto.MedicineResponse, 0, len(medicines))
	for i := range medicines {
		response, err := u.compose(db, &medicines[i], attributes[medicines[i].ID], now)
		if err != nil {
			u.log.Warnf("Failed to compose medicine %d: %+v", medicines[i].ID, err)
			return nil, err
		}
		responses = append(responses, *response)
	}
	return responses, nil
}

// compose builds the response of one medicine from dedicated lookups. When
// attributes is nil they are loaded as well.
func (u *medicineUsecase) compose(db *gorm.DB, medicine *entity.Medicine, attributes []entity.Attribute, now time.Time) (*dto.MedicineResponse, error) {
	if attributes == nil {
		loaded, err := u.attributeRepo.FindByMedicineID(db, medicine.ID)
		if err != nil {
			return nil, err
		}
		attributes = loaded
	}

	categories, err := u.medicineCategoryRepo.FindCategoriesByMedicineID(db, medicine.ID)
	if err != nil {
		return nil, err
	}

	medias, err := u.mediaRepo.FindByMedicineID(db, medicine.ID)
	if err != nil {
		return nil, err
	}

	return converter.MedicineToResponse(medicine, attributes, categories, medias, now), nil
}

func medicineIDs(medicines []entity.Medicine) []int64 {
	ids := make([]int64, 0, len(medicines))
	for _, medicine := range medicines {
		ids = append(ids, medicine.ID)
	}
	return ids
}
