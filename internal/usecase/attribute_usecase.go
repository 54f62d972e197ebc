package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAttributeNotFound     = errors.New("attribute not found")
	ErrAttributeMedicineMiss = errors.New("attribute must belong to a medicine")
)

type AttributeUsecase interface {
	GetAll(ctx context.Context) ([]dto.AttributeResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.AttributeResponse, error)
	GetByMedicineID(ctx context.Context, medicineID int64) ([]dto.AttributeResponse, error)
	Save(ctx context.Context, caller *entity.Caller, req *dto.SaveAttributeRequest) (*dto.AttributeResponse, error)
	DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error)
}

type attributeUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	attributeRepo repository.AttributeRepository
	medicineRepo  repository.MedicineRepository
	auditService  service.AuditService
}

func NewAttributeUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	attributeRepo repository.AttributeRepository,
	medicineRepo repository.MedicineRepository,
	auditService service.AuditService,
) AttributeUsecase {
	return &attributeUsecase{
		db:            db,
		log:           log,
		attributeRepo: attributeRepo,
		medicineRepo:  medicineRepo,
		auditService:  auditService,
	}
}

func (u *attributeUsecase) GetAll(ctx context.Context) ([]dto.AttributeResponse, error) {
	attributes, err := u.attributeRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find attributes: %+v", err)
		return nil, err
	}
	return converter.AttributesToResponses(attributes, time.Now()), nil
}

func (u *attributeUsecase) GetByID(ctx context.Context, id int64) (*dto.AttributeResponse, error) {
	attribute, err := u.attributeRepo.FindActiveByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find attribute %d: %+v", id, err)
		return nil, err
	}
	if attribute == nil {
		return nil, ErrAttributeNotFound
	}
	return converter.AttributeToResponse(attribute, time.Now()), nil
}

// GetByMedicineID returns the active attributes of an active medicine
func (u *attributeUsecase) GetByMedicineID(ctx context.Context, medicineID int64) ([]dto.AttributeResponse, error) {
	db := u.db.WithContext(ctx)

	exists, err := u.medicineRepo.ExistsByID(db, medicineID)
	if err != nil {
		u.log.Warnf("Failed to check medicine %d: %+v", medicineID, err)
		return nil, err
	}
	if !exists {
		return nil, ErrMedicineNotFound
	}

	attributes, err := u.attributeRepo.FindByMedicineID(db, medicineID)
	if err != nil {
		u.log.Warnf("Failed to find attributes of medicine %d: %+v", medicineID, err)
		return nil, err
	}
	return converter.AttributesToResponses(attributes, time.Now()), nil
}

// Save inserts or updates a single attribute of an existing medicine
func (u *attributeUsecase) Save(ctx context.Context, caller *entity.Caller, req *dto.SaveAttributeRequest) (*dto.AttributeResponse, error) {
	if req.MedicineID <= 0 {
		return nil, ErrAttributeMedicineMiss
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	exists, err := u.medicineRepo.ExistsByID(tx, req.MedicineID)
	if err != nil {
		u.log.Warnf("Failed to check medicine %d: %+v", req.MedicineID, err)
		return nil, err
	}
	if !exists {
		return nil, ErrMedicineNotFound
	}

	var previous *entity.Attribute
	if req.ID != 0 {
		previous, err = u.attributeRepo.FindActiveByID(tx, req.ID)
		if err != nil {
			u.log.Warnf("Failed to find attribute %d: %+v", req.ID, err)
			return nil, err
		}
		if previous == nil {
			return nil, ErrAttributeNotFound
		}
	}

	attribute, err := upsertAttribute(tx, u.attributeRepo, req.MedicineID, req)
	if err != nil {
		if !errors.Is(err, ErrAttributeNotFound) && !errors.Is(err, ErrInvalidDateFormat) {
			u.log.Warnf("Failed to save attribute: %+v", err)
		}
		return nil, err
	}

	userID := service.CallerUserID(caller)
	if previous != nil {
		err = u.auditService.LogUpdate(ctx, tx, userID, entity.AuditActionAttributeSave, "attribute", attribute.ID, previous, attribute)
	} else {
		err = u.auditService.LogCreate(ctx, tx, userID, entity.AuditActionAttributeSave, "attribute", attribute.ID, attribute)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.AttributeToResponse(attribute, time.Now()), nil
}

func (u *attributeUsecase) DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	result := &dto.DeleteResponse{}
	for _, id := range uniqueIDs(ids) {
		attribute, err := u.attributeRepo.FindActiveByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find attribute %d: %+v", id, err)
			return nil, err
		}
		if attribute == nil {
			result.NotFound = append(result.NotFound, id)
			continue
		}

		if err := u.attributeRepo.SoftDelete(tx, id); err != nil {
			u.log.Warnf("Failed to delete attribute %d: %+v", id, err)
			return nil, err
		}
		if err := u.auditService.LogDelete(ctx, tx, service.CallerUserID(caller), entity.AuditActionAttributeDelete, "attribute", id, attribute); err != nil {
			return nil, err
		}
		result.Deleted++
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	return result, nil
}

// upsertAttribute saves req as an attribute of medicineID. A non-zero id must
// name an active attribute; its creation time is kept.
func upsertAttribute(tx *gorm.DB, attributeRepo repository.AttributeRepository, medicineID int64, req *dto.SaveAttributeRequest) (*entity.Attribute, error) {
	expiryDate, err := parseOptionalDate(req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	attribute := &entity.Attribute{}
	if req.ID != 0 {
		existing, err := attributeRepo.FindActiveByID(tx, req.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrAttributeNotFound
		}
		attribute = existing
	}

	attribute.MedicineID = medicineID
	attribute.Name = strings.TrimSpace(req.Name)
	attribute.Stock = req.Stock
	attribute.PriceIn = req.PriceIn
	attribute.PriceOut = req.PriceOut
	attribute.ExpiryDate = expiryDate

	if err := attributeRepo.Save(tx, attribute); err != nil {
		return nil, err
	}
	return attribute, nil
}
