package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

const appointmentTimeLayout = "15:04"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrBookingAlreadyScheduled = errors.New("service booking already has an appointment")
	ErrInvalidTimeFormat       = errors.New("invalid time format, use HH:MM")
)

type AppointmentUsecase interface {
	GetAll(ctx context.Context) ([]dto.AppointmentResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.AppointmentResponse, error)
	GetByDoctorID(ctx context.Context, doctorID int64) ([]dto.AppointmentResponse, error)
	GetByPatientID(ctx context.Context, patientID int64) ([]dto.AppointmentResponse, error)
	Save(ctx context.Context, caller *entity.Caller, req *dto.SaveAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, caller *entity.Caller, id int64, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	SaveConsultation(ctx context.Context, caller *entity.Caller, appointmentID int64, req *dto.SaveConsultationRequest) (*dto.ConsultationResponse, error)
	DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	consultationRepo repository.ConsultationRepository
	bookingRepo      repository.ServiceBookingRepository
	patientRepo      repository.PatientProfileRepository
	doctorRepo       repository.DoctorProfileRepository
	auditService     service.AuditService
	metrics          *metrics.Collector
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	consultationRepo repository.ConsultationRepository,
	bookingRepo repository.ServiceBookingRepository,
	patientRepo repository.PatientProfileRepository,
	doctorRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	collector *metrics.Collector,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		consultationRepo: consultationRepo,
		bookingRepo:      bookingRepo,
		patientRepo:      patientRepo,
		doctorRepo:       doctorRepo,
		auditService:     auditService,
		metrics:          collector,
	}
}

func (u *appointmentUsecase) GetAll(ctx context.Context) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments, time.Now()), nil
}

// GetByID returns the appointment with its consultation and prescriptions
func (u *appointmentUsecase) GetByID(ctx context.Context, id int64) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindActiveByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment, time.Now()), nil
}

func (u *appointmentUsecase) GetByDoctorID(ctx context.Context, doctorID int64) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments of doctor %d: %+v", doctorID, err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments, time.Now()), nil
}

func (u *appointmentUsecase) GetByPatientID(ctx context.Context, patientID int64) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments of patient %d: %+v", patientID, err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments, time.Now()), nil
}

// Save creates or updates an appointment. A service booking carries at most
// one active appointment.
func (u *appointmentUsecase) Save(ctx context.Context, caller *entity.Caller, req *dto.SaveAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointmentDate, err := time.Parse(dto.DateLayout, req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	appointmentTime, err := time.Parse(appointmentTimeLayout, req.AppointmentTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment := &entity.Appointment{Status: entity.AppointmentStatusScheduled}
	var oldValue map[string]interface{}
	if req.ID != 0 {
		existing, err := u.appointmentRepo.FindActiveByID(tx, req.ID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %d: %+v", req.ID, err)
			return nil, err
		}
		if existing == nil {
			return nil, ErrAppointmentNotFound
		}
		oldValue = appointmentSnapshot(existing)
		appointment = existing
	}

	exists, err := u.bookingRepo.ExistsByID(tx, req.ServiceBookingID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrServiceBookingNotFound
	}

	linked, err := u.appointmentRepo.FindActiveByServiceBookingID(tx, req.ServiceBookingID)
	if err != nil {
		return nil, err
	}
	if linked != nil && linked.ID != appointment.ID {
		return nil, ErrBookingAlreadyScheduled
	}

	patient, err := u.patientRepo.FindActiveByID(tx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	doctor, err := u.doctorRepo.FindActiveByID(tx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if req.Status != "" {
		status, ok := entity.ParseAppointmentStatus(req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
		}
		appointment.Status = status
	}

	appointment.PatientID = req.PatientID
	appointment.DoctorID = req.DoctorID
	appointment.ServiceBookingID = req.ServiceBookingID
	appointment.AppointmentDate = appointmentDate
	appointment.AppointmentTime = appointmentTime.Format(appointmentTimeLayout)
	appointment.Consultation = nil
	appointment.Prescriptions = nil

	if err := u.appointmentRepo.Save(tx, appointment); err != nil {
		u.log.Warnf("Failed to save appointment: %+v", err)
		return nil, err
	}

	if oldValue == nil {
		err = u.auditService.LogCreate(ctx, tx, service.CallerUserID(caller), entity.AuditActionAppointmentSave, "appointment", appointment.ID, appointmentSnapshot(appointment))
	} else {
		err = u.auditService.LogUpdate(ctx, tx, service.CallerUserID(caller), entity.AuditActionAppointmentSave, "appointment", appointment.ID, oldValue, appointmentSnapshot(appointment))
	}
	if err != nil {
		return nil, err
	}

	saved, err := u.appointmentRepo.FindActiveByID(tx, appointment.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.metrics.AppointmentsTotal.WithLabelValues(string(saved.Status)).Inc()
	u.log.Infof("Appointment %d saved for booking %d", saved.ID, saved.ServiceBookingID)
	return converter.AppointmentToResponse(saved, time.Now()), nil
}

func (u *appointmentUsecase) UpdateStatus(ctx context.Context, caller *entity.Caller, id int64, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	status, ok := entity.ParseAppointmentStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindActiveByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	oldValue := appointmentSnapshot(appointment)

	if _, err := u.appointmentRepo.UpdateStatus(tx, id, status); err != nil {
		u.log.Warnf("Failed to update appointment %d: %+v", id, err)
		return nil, err
	}
	appointment.Status = status

	if err := u.auditService.LogUpdate(ctx, tx, service.CallerUserID(caller), entity.AuditActionAppointmentUpdate, "appointment", id, oldValue, appointmentSnapshot(appointment)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.metrics.AppointmentsTotal.WithLabelValues(string(status)).Inc()
	return converter.AppointmentToResponse(appointment, time.Now()), nil
}

// SaveConsultation creates the appointment's consultation or updates the
// existing one
func (u *appointmentUsecase) SaveConsultation(ctx context.Context, caller *entity.Caller, appointmentID int64, req *dto.SaveConsultationRequest) (*dto.ConsultationResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	exists, err := u.appointmentRepo.ExistsByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to check appointment %d: %+v", appointmentID, err)
		return nil, err
	}
	if !exists {
		return nil, ErrAppointmentNotFound
	}

	consultation, err := u.consultationRepo.FindByAppointmentID(tx, appointmentID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		consultation = &entity.Consultation{AppointmentID: appointmentID}
	}

	consultation.Symptoms = req.Symptoms
	consultation.Diagnosis = req.Diagnosis
	consultation.Notes = req.Notes

	if err := u.consultationRepo.Save(tx, consultation); err != nil {
		u.log.Warnf("Failed to save consultation of appointment %d: %+v", appointmentID, err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, service.CallerUserID(caller), entity.AuditActionAppointmentUpdate, "consultation", consultation.ID, consultation); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	return converter.ConsultationToResponse(consultation), nil
}

func (u *appointmentUsecase) DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	result := &dto.DeleteResponse{}
	for _, id := range uniqueIDs(ids) {
		appointment, err := u.appointmentRepo.FindActiveByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find appointment %d: %+v", id, err)
			return nil, err
		}
		if appointment == nil {
			result.NotFound = append(result.NotFound, id)
			continue
		}

		if err := u.appointmentRepo.SoftDelete(tx, id); err != nil {
			u.log.Warnf("Failed to delete appointment %d: %+v", id, err)
			return nil, err
		}
		if err := u.auditService.LogDelete(ctx, tx, service.CallerUserID(caller), entity.AuditActionAppointmentDelete, "appointment", id, appointmentSnapshot(appointment)); err != nil {
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

func appointmentSnapshot(appointment *entity.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"id":                 appointment.ID,
		"patient_id":         appointment.PatientID,
		"doctor_id":          appointment.DoctorID,
		"service_booking_id": appointment.ServiceBookingID,
		"appointment_date":   appointment.AppointmentDate.Format(dto.DateLayout),
		"appointment_time":   appointment.AppointmentTime,
		"status":             appointment.Status,
	}
}
