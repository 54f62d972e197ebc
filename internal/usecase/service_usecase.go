package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/domain/storage"
	"clinic-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrDoctorNotFound  = errors.New("doctor not found")
)

type ServiceUsecase interface {
	SaveWithDoctors(ctx context.Context, caller *entity.Caller, req *dto.SaveServiceRequest, file *storage.File) (*dto.ServiceWithDoctorsResponse, error)
	GetAll(ctx context.Context) ([]dto.ServiceResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ServiceResponse, error)
	FindByName(ctx context.Context, name string) ([]dto.ServiceResponse, error)
	GetDoctorIDs(ctx context.Context, serviceID int64) ([]int64, error)
	DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error)
}

type serviceUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	serviceRepo       repository.ServiceRepository
	doctorServiceRepo repository.DoctorServiceRepository
	doctorRepo        repository.DoctorProfileRepository
	mediaService      service.MediaService
	auditService      service.AuditService
}

func NewServiceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	serviceRepo repository.ServiceRepository,
	doctorServiceRepo repository.DoctorServiceRepository,
	doctorRepo repository.DoctorProfileRepository,
	mediaService service.MediaService,
	auditService service.AuditService,
) ServiceUsecase {
	return &serviceUsecase{
		db:                db,
		log:               log,
		serviceRepo:       serviceRepo,
		doctorServiceRepo: doctorServiceRepo,
		doctorRepo:        doctorRepo,
		mediaService:      mediaService,
		auditService:      auditService,
	}
}

// SaveWithDoctors inserts or updates a service and reconciles its doctor
// links against req.DoctorIDs in one transaction.
//
// Flow:
// 1. Upload the new image when a non-empty file is given
// 2. Insert or update the service row
// 3. Restore, create or soft-delete links so the active set equals the request
// 4. Commit, then delete the replaced image from storage
// A failure before the commit rolls back and deletes the new upload. A failed
// delete of the replaced image only leaves an orphaned object and is logged.
func (u *serviceUsecase) SaveWithDoctors(ctx context.Context, caller *entity.Caller, req *dto.SaveServiceRequest, file *storage.File) (*dto.ServiceWithDoctorsResponse, error) {
	uploads := u.mediaService.NewSession()

	result, replacedImage, err := u.saveWithDoctors(ctx, caller, req, file, uploads)
	if err != nil {
		uploads.Compensate(context.WithoutCancel(ctx))
		if !errors.Is(err, ErrServiceNotFound) && !errors.Is(err, ErrDoctorNotFound) {
			u.log.Warnf("Failed to save service with doctors: %+v", err)
		}
		return nil, err
	}

	if replacedImage != "" {
		if err := u.mediaService.Delete(context.WithoutCancel(ctx), replacedImage); err != nil {
			u.log.Warnf("Failed to delete replaced image %s of service %d: %+v", replacedImage, result.Service.ID, err)
		}
	}

	u.log.Infof("Service %d saved with %d doctor(s)", result.Service.ID, len(result.DoctorServices))
	return result, nil
}

func (u *serviceUsecase) saveWithDoctors(
	ctx context.Context,
	caller *entity.Caller,
	req *dto.SaveServiceRequest,
	file *storage.File,
	uploads *service.UploadSession,
) (*dto.ServiceWithDoctorsResponse, string, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	svc := &entity.Service{}
	var oldValue *entity.Service
	if req.ID != 0 {
		existing, err := u.serviceRepo.FindActiveByID(tx, req.ID)
		if err != nil {
			return nil, "", err
		}
		if existing == nil {
			return nil, "", ErrServiceNotFound
		}
		snapshot := *existing
		oldValue = &snapshot
		svc = existing
	}

	previousImage := svc.Image
	if file != nil && !file.IsEmpty() {
		url, err := uploads.Upload(ctx, file)
		if err != nil {
			return nil, "", fmt.Errorf("upload service image: %w", err)
		}
		svc.Image = url
	}

	svc.Name = strings.TrimSpace(req.Name)
	svc.Price = req.Price
	svc.Description = req.Description

	if err := u.serviceRepo.Save(tx, svc); err != nil {
		return nil, "", err
	}

	if err := u.reconcileDoctors(tx, svc.ID, req.DoctorIDs); err != nil {
		return nil, "", err
	}

	if oldValue == nil {
		if err := u.auditService.LogCreate(ctx, tx, service.CallerUserID(caller), entity.AuditActionServiceSave, "service", svc.ID, svc); err != nil {
			return nil, "", err
		}
	} else {
		if err := u.auditService.LogUpdate(ctx, tx, service.CallerUserID(caller), entity.AuditActionServiceSave, "service", svc.ID, oldValue, svc); err != nil {
			return nil, "", err
		}
	}

	links, err := u.doctorServiceRepo.FindActiveByServiceID(tx, svc.ID)
	if err != nil {
		return nil, "", err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, "", err
	}

	replacedImage := ""
	if previousImage != "" && previousImage != svc.Image {
		replacedImage = previousImage
	}

	return &dto.ServiceWithDoctorsResponse{
		Service:        *converter.ServiceToResponse(svc),
		DoctorServices: converter.DoctorServicesToResponses(links),
	}, replacedImage, nil
}

// reconcileDoctors makes the active links of the service equal doctorIDs,
// reusing soft-deleted rows instead of inserting duplicates
func (u *serviceUsecase) reconcileDoctors(tx *gorm.DB, serviceID int64, doctorIDs []int64) error {
	existing, err := u.doctorServiceRepo.FindByServiceIDIncludingDeleted(tx, serviceID)
	if err != nil {
		return err
	}

	byDoctor := make(map[int64]*entity.DoctorService, len(existing))
	for i := range existing {
		byDoctor[existing[i].DoctorID] = &existing[i]
	}

	desired := uniqueIDs(doctorIDs)
	wanted := make(map[int64]struct{}, len(desired))
	for _, doctorID := range desired {
		wanted[doctorID] = struct{}{}

		link, ok := byDoctor[doctorID]
		switch {
		case ok && link.IsDeleted:
			if err := u.doctorServiceRepo.Restore(tx, link); err != nil {
				return err
			}
		case ok:
			// already linked
		default:
			doctor, err := u.doctorRepo.FindActiveByID(tx, doctorID)
			if err != nil {
				return err
			}
			if doctor == nil {
				return fmt.Errorf("%w: %d", ErrDoctorNotFound, doctorID)
			}
			if err := u.doctorServiceRepo.Create(tx, &entity.DoctorService{DoctorID: doctorID, ServiceID: serviceID}); err != nil {
				return err
			}
		}
	}

	var stale []int64
	for _, link := range existing {
		if _, ok := wanted[link.DoctorID]; !ok && !link.IsDeleted {
			stale = append(stale, link.ID)
		}
	}
	return u.doctorServiceRepo.SoftDeleteByIDs(tx, stale)
}

func (u *serviceUsecase) GetAll(ctx context.Context) ([]dto.ServiceResponse, error) {
	services, err := u.serviceRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find services: %+v", err)
		return nil, err
	}
	return converter.ServicesToResponses(services), nil
}

func (u *serviceUsecase) GetByID(ctx context.Context, id int64) (*dto.ServiceResponse, error) {
	svc, err := u.serviceRepo.FindActiveByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find service %d: %+v", id, err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return converter.ServiceToResponse(svc), nil
}

func (u *serviceUsecase) FindByName(ctx context.Context, name string) ([]dto.ServiceResponse, error) {
	services, err := u.serviceRepo.FindActiveByName(u.db.WithContext(ctx), strings.TrimSpace(name))
	if err != nil {
		u.log.Warnf("Failed to find services by name: %+v", err)
		return nil, err
	}
	return converter.ServicesToResponses(services), nil
}

// GetDoctorIDs returns the doctors actively linked to the service
func (u *serviceUsecase) GetDoctorIDs(ctx context.Context, serviceID int64) ([]int64, error) {
	db := u.db.WithContext(ctx)

	exists, err := u.serviceRepo.ExistsByID(db, serviceID)
	if err != nil {
		u.log.Warnf("Failed to check service %d: %+v", serviceID, err)
		return nil, err
	}
	if !exists {
		return nil, ErrServiceNotFound
	}

	links, err := u.doctorServiceRepo.FindActiveByServiceID(db, serviceID)
	if err != nil {
		u.log.Warnf("Failed to find doctors of service %d: %+v", serviceID, err)
		return nil, err
	}

	ids := make([]int64, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.DoctorID)
	}
	return ids, nil
}

// DeleteByIDs soft-deletes each existing service and its doctor links
func (u *serviceUsecase) DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	result := &dto.DeleteResponse{}
	for _, id := range uniqueIDs(ids) {
		svc, err := u.serviceRepo.FindActiveByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find service %d: %+v", id, err)
			return nil, err
		}
		if svc == nil {
			result.NotFound = append(result.NotFound, id)
			continue
		}

		links, err := u.doctorServiceRepo.FindActiveByServiceID(tx, id)
		if err != nil {
			return nil, err
		}
		linkIDs := make([]int64, 0, len(links))
		for _, link := range links {
			linkIDs = append(linkIDs, link.ID)
		}
		if err := u.doctorServiceRepo.SoftDeleteByIDs(tx, linkIDs); err != nil {
			u.log.Warnf("Failed to delete doctor links of service %d: %+v", id, err)
			return nil, err
		}

		if err := u.serviceRepo.SoftDelete(tx, id); err != nil {
			u.log.Warnf("Failed to delete service %d: %+v", id, err)
			return nil, err
		}
		if err := u.auditService.LogDelete(ctx, tx, service.CallerUserID(caller), entity.AuditActionServiceDelete, "service", id, svc); err != nil {
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
