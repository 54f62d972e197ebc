package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/service"
	"clinic-backend/pkg/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrPrescriptionNotFound = errors.New("prescription not found")

type PrescriptionUsecase interface {
	GetAll(ctx context.Context) ([]dto.PrescriptionResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.PrescriptionResponse, error)
	GetByPatientID(ctx context.Context, patientID int64) ([]dto.PrescriptionResponse, error)
	GetByDoctorID(ctx context.Context, doctorID int64) ([]dto.PrescriptionResponse, error)
	GetByAppointmentID(ctx context.Context, appointmentID int64) ([]dto.PrescriptionResponse, error)
	Save(ctx context.Context, caller *entity.Caller, req *dto.SavePrescriptionRequest) (*dto.PrescriptionResponse, error)
	DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	patientRepo      repository.PatientProfileRepository
	doctorRepo       repository.DoctorProfileRepository
	medicineRepo     repository.MedicineRepository
	appointmentRepo  repository.AppointmentRepository
	auditService     service.AuditService
	metrics          *metrics.Collector
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	patientRepo repository.PatientProfileRepository,
	doctorRepo repository.DoctorProfileRepository,
	medicineRepo repository.MedicineRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	collector *metrics.Collector,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		prescriptionRepo: prescriptionRepo,
		patientRepo:      patientRepo,
		doctorRepo:       doctorRepo,
		medicineRepo:     medicineRepo,
		appointmentRepo:  appointmentRepo,
		auditService:     auditService,
		metrics:          collector,
	}
}

func (u *prescriptionUsecase) GetAll(ctx context.Context) ([]dto.PrescriptionResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find prescriptions: %+v", err)
		return nil, err
	}
	return converter.PrescriptionsToResponses(prescriptions, time.Now()), nil
}

func (u *prescriptionUsecase) GetByID(ctx context.Context, id int64) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindActiveByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find prescription %d: %+v", id, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	return converter.PrescriptionToResponse(prescription, time.Now()), nil
}

func (u *prescriptionUsecase) GetByPatientID(ctx context.Context, patientID int64) ([]dto.PrescriptionResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions of patient %d: %+v", patientID, err)
		return nil, err
	}
	return converter.PrescriptionsToResponses(prescriptions, time.Now()), nil
}

func (u *prescriptionUsecase) GetByDoctorID(ctx context.Context, doctorID int64) ([]dto.PrescriptionResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions of doctor %d: %+v", doctorID, err)
		return nil, err
	}
	return converter.PrescriptionsToResponses(prescriptions, time.Now()), nil
}

func (u *prescriptionUsecase) GetByAppointmentID(ctx context.Context, appointmentID int64) ([]dto.PrescriptionResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByAppointmentID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions of appointment %d: %+v", appointmentID, err)
		return nil, err
	}
	return converter.PrescriptionsToResponses(prescriptions, time.Now()), nil
}

// Save creates or updates a prescription. New prescriptions are stamped with
// the current time and default to ACTIVE.
func (u *prescriptionUsecase) Save(ctx context.Context, caller *entity.Caller, req *dto.SavePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	expiryDate, err := parseOptionalDate(req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription := &entity.Prescription{
		Status:           entity.PrescriptionStatusActive,
		PrescriptionDate: time.Now(),
	}
	var oldValue *entity.Prescription
	if req.ID != 0 {
		existing, err := u.prescriptionRepo.FindActiveByID(tx, req.ID)
		if err != nil {
			u.log.Warnf("Failed to find prescription %d: %+v", req.ID, err)
			return nil, err
		}
		if existing == nil {
			return nil, ErrPrescriptionNotFound
		}
		snapshot := *existing
		oldValue = &snapshot
		prescription = existing
	}

	if err := u.checkReferences(tx, req); err != nil {
		return nil, err
	}

	if req.Status != "" {
		status, ok := entity.ParsePrescriptionStatus(req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
		}
		prescription.Status = status
	}

	prescription.PatientID = req.PatientID
	prescription.DoctorID = req.DoctorID
	prescription.AppointmentID = req.AppointmentID
	prescription.MedicineID = req.MedicineID
	prescription.Dosage = req.Dosage
	prescription.ExpiryDate = expiryDate
	prescription.Notes = req.Notes
	prescription.Medicine = entity.Medicine{}

	if err := u.prescriptionRepo.Save(tx, prescription); err != nil {
		u.log.Warnf("Failed to save prescription: %+v", err)
		return nil, err
	}

	if oldValue == nil {
		err = u.auditService.LogCreate(ctx, tx, service.CallerUserID(caller), entity.AuditActionPrescriptionSave, "prescription", prescription.ID, prescription)
	} else {
		oldValue.Medicine = entity.Medicine{}
		err = u.auditService.LogUpdate(ctx, tx, service.CallerUserID(caller), entity.AuditActionPrescriptionSave, "prescription", prescription.ID, oldValue, prescription)
	}
	if err != nil {
		return nil, err
	}

	saved, err := u.prescriptionRepo.FindActiveByID(tx, prescription.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if oldValue == nil {
		u.metrics.PrescriptionsIssued.Inc()
	}
	u.log.Infof("Prescription %d saved for patient %d", saved.ID, saved.PatientID)
	return converter.PrescriptionToResponse(saved, time.Now()), nil
}

// checkReferences verifies patient, doctor, medicine and the optional appointment
func (u *prescriptionUsecase) checkReferences(tx *gorm.DB, req *dto.SavePrescriptionRequest) error {
	patient, err := u.patientRepo.FindActiveByID(tx, req.PatientID)
	if err != nil {
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	doctor, err := u.doctorRepo.FindActiveByID(tx, req.DoctorID)
	if err != nil {
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	exists, err := u.medicineRepo.ExistsByID(tx, req.MedicineID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrMedicineNotFound
	}

	if req.AppointmentID != nil {
		exists, err := u.appointmentRepo.ExistsByID(tx, *req.AppointmentID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrAppointmentNotFound
		}
	}
	return nil
}

func (u *prescriptionUsecase) DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	result := &dto.DeleteResponse{}
	for _, id := range uniqueIDs(ids) {
		prescription, err := u.prescriptionRepo.FindActiveByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find prescription %d: %+v", id, err)
			return nil, err
		}
		if prescription == nil {
			result.NotFound = append(result.NotFound, id)
			continue
		}

		if err := u.prescriptionRepo.SoftDelete(tx, id); err != nil {
			u.log.Warnf("Failed to delete prescription %d: %+v", id, err)
			return nil, err
		}
		prescription.Medicine = entity.Medicine{}
		if err := u.auditService.LogDelete(ctx, tx, service.CallerUserID(caller), entity.AuditActionPrescriptionDelete, "prescription", id, prescription); err != nil {
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
