package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/service"
	"clinic-backend/pkg/metrics"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrServiceBookingNotFound  = errors.New("service booking not found")
	ErrPatientNotFound         = errors.New("patient not found")
	ErrNoUpdateFields          = errors.New("at least one of status or total_price must be provided")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidTotalPrice       = errors.New("invalid total_price")
	ErrBookingAlreadyCancelled = errors.New("service booking is already cancelled")
	ErrUnauthenticated         = errors.New("authentication required")
	ErrForbidden               = errors.New("insufficient permissions")
)

type ServiceBookingUsecase interface {
	UpdateStatusAndPrice(ctx context.Context, caller *entity.Caller, id int64, req *dto.UpdateBookingStatusPriceRequest) (*dto.ServiceBookingResponse, error)
	GetCallerBookings(ctx context.Context, caller *entity.Caller) ([]dto.ServiceBookingResponse, error)
	GetAll(ctx context.Context) ([]dto.ServiceBookingResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ServiceBookingResponse, error)
	Save(ctx context.Context, caller *entity.Caller, req *dto.SaveServiceBookingRequest) (*dto.ServiceBookingResponse, error)
	GetByServiceID(ctx context.Context, serviceID int64) ([]dto.ServiceBookingResponse, error)
	GetByPatientID(ctx context.Context, patientID int64) ([]dto.ServiceBookingResponse, error)
	GetByStatus(ctx context.Context, status string) ([]dto.ServiceBookingResponse, error)
	Cancel(ctx context.Context, caller *entity.Caller, id int64) (*dto.ServiceBookingResponse, error)
	DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error)
}

type serviceBookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	bookingRepo     repository.ServiceBookingRepository
	serviceRepo     repository.ServiceRepository
	patientRepo     repository.PatientProfileRepository
	doctorRepo      repository.DoctorProfileRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	metrics         *metrics.Collector
}

func NewServiceBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.ServiceBookingRepository,
	serviceRepo repository.ServiceRepository,
	patientRepo repository.PatientProfileRepository,
	doctorRepo repository.DoctorProfileRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	collector *metrics.Collector,
) ServiceBookingUsecase {
	return &serviceBookingUsecase{
		db:              db,
		log:             log,
		bookingRepo:     bookingRepo,
		serviceRepo:     serviceRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		metrics:         collector,
	}
}

// UpdateStatusAndPrice changes only the supplied fields of a booking.
// total_price accepts a JSON number or a numeric string; null means absent.
func (u *serviceBookingUsecase) UpdateStatusAndPrice(ctx context.Context, caller *entity.Caller, id int64, req *dto.UpdateBookingStatusPriceRequest) (*dto.ServiceBookingResponse, error) {
	totalPrice, err := parseTotalPrice(req.TotalPrice)
	if err != nil {
		return nil, err
	}
	if req.Status == nil && totalPrice == nil {
		return nil, ErrNoUpdateFields
	}

	var status *entity.BookingStatus
	if req.Status != nil {
		parsed, ok := entity.ParseBookingStatus(*req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
		}
		status = &parsed
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.bookingRepo.FindActiveByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find service booking %d: %+v", id, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrServiceBookingNotFound
	}
	oldValue := bookingSnapshot(booking)

	affected, err := u.bookingRepo.UpdateStatusAndPrice(tx, id, status, totalPrice)
	if err != nil {
		u.log.Warnf("Failed to update service booking %d: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrServiceBookingNotFound
	}

	updated, err := u.bookingRepo.FindActiveByID(tx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrServiceBookingNotFound
	}

	if err := u.auditService.LogUpdate(ctx, tx, service.CallerUserID(caller), entity.AuditActionBookingUpdate, "service_booking", id, oldValue, bookingSnapshot(updated)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.metrics.BookingUpdatesTotal.WithLabelValues(string(updated.Status)).Inc()
	u.log.Infof("Service booking %d updated: status=%s total_price=%s", id, updated.Status, updated.TotalPrice)
	return converter.ServiceBookingToResponse(updated), nil
}

// parseTotalPrice reads a JSON number or numeric string. Empty input and
// null yield nil.
func parseTotalPrice(raw json.RawMessage) (*decimal.Decimal, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	text := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTotalPrice, string(trimmed))
		}
	}

	value, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil || value.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTotalPrice, text)
	}
	return &value, nil
}

// GetCallerBookings lists the bookings visible to the caller: a doctor sees
// bookings whose appointment is assigned to them, a patient sees their own.
// The doctor role wins when the caller has both.
func (u *serviceBookingUsecase) GetCallerBookings(ctx context.Context, caller *entity.Caller) ([]dto.ServiceBookingResponse, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	db := u.db.WithContext(ctx)

	switch {
	case caller.HasRole(entity.RoleDoctor):
		doctor, err := u.doctorRepo.FindByUserID(db, caller.UserID)
		if err != nil {
			u.log.Warnf("Failed to find doctor profile of user %d: %+v", caller.UserID, err)
			return nil, err
		}
		if doctor == nil {
			return []dto.ServiceBookingResponse{}, nil
		}
		bookings, err := u.bookingRepo.FindByDoctorID(db, doctor.ID)
		if err != nil {
			u.log.Warnf("Failed to find bookings of doctor %d: %+v", doctor.ID, err)
			return nil, err
		}
		return converter.ServiceBookingsToResponses(bookings), nil

	case caller.HasRole(entity.RolePatient):
		patient, err := u.patientRepo.FindByUserID(db, caller.UserID)
		if err != nil {
			u.log.Warnf("Failed to find patient profile of user %d: %+v", caller.UserID, err)
			return nil, err
		}
		if patient == nil {
			return []dto.ServiceBookingResponse{}, nil
		}
		bookings, err := u.bookingRepo.FindByPatientID(db, patient.ID)
		if err != nil {
			u.log.Warnf("Failed to find bookings of patient %d: %+v", patient.ID, err)
			return nil, err
		}
		return converter.ServiceBookingsToResponses(bookings), nil

	default:
		return nil, ErrForbidden
	}
}

func (u *serviceBookingUsecase) GetAll(ctx context.Context) ([]dto.ServiceBookingResponse, error) {
	bookings, err := u.bookingRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find service bookings: %+v", err)
		return nil, err
	}
	return converter.ServiceBookingsToResponses(bookings), nil
}

func (u *serviceBookingUsecase) GetByID(ctx context.Context, id int64) (*dto.ServiceBookingResponse, error) {
	booking, err := u.bookingRepo.FindActiveByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find service booking %d: %+v", id, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrServiceBookingNotFound
	}
	return converter.ServiceBookingToResponse(booking), nil
}

// Save creates or updates a booking. On create the status defaults to PENDING
// and the total price to the service price.
func (u *serviceBookingUsecase) Save(ctx context.Context, caller *entity.Caller, req *dto.SaveServiceBookingRequest) (*dto.ServiceBookingResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking := &entity.ServiceBooking{Status: entity.BookingStatusPending}
	var oldValue map[string]interface{}
	if req.ID != 0 {
		existing, err := u.bookingRepo.FindActiveByID(tx, req.ID)
		if err != nil {
			u.log.Warnf("Failed to find service booking %d: %+v", req.ID, err)
			return nil, err
		}
		if existing == nil {
			return nil, ErrServiceBookingNotFound
		}
		oldValue = bookingSnapshot(existing)
		booking = existing
	}

	svc, err := u.serviceRepo.FindActiveByID(tx, req.ServiceID)
	if err != nil {
		u.log.Warnf("Failed to find service %d: %+v", req.ServiceID, err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}

	patient, err := u.patientRepo.FindActiveByID(tx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if req.Status != "" {
		status, ok := entity.ParseBookingStatus(req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
		}
		booking.Status = status
	}

	switch {
	case req.TotalPrice != nil:
		booking.TotalPrice = *req.TotalPrice
	case req.ID == 0:
		booking.TotalPrice = svc.Price
	}

	booking.ServiceID = req.ServiceID
	booking.PatientID = req.PatientID
	booking.Notes = req.Notes

	if err := u.bookingRepo.Save(tx, booking); err != nil {
		u.log.Warnf("Failed to save service booking: %+v", err)
		return nil, err
	}

	if oldValue == nil {
		err = u.auditService.LogCreate(ctx, tx, service.CallerUserID(caller), entity.AuditActionBookingSave, "service_booking", booking.ID, bookingSnapshot(booking))
	} else {
		err = u.auditService.LogUpdate(ctx, tx, service.CallerUserID(caller), entity.AuditActionBookingSave, "service_booking", booking.ID, oldValue, bookingSnapshot(booking))
	}
	if err != nil {
		return nil, err
	}

	saved, err := u.bookingRepo.FindActiveByID(tx, booking.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Service booking %d saved for patient %d", saved.ID, saved.PatientID)
	return converter.ServiceBookingToResponse(saved), nil
}

func (u *serviceBookingUsecase) GetByServiceID(ctx context.Context, serviceID int64) ([]dto.ServiceBookingResponse, error) {
	bookings, err := u.bookingRepo.FindByServiceID(u.db.WithContext(ctx), serviceID)
	if err != nil {
		u.log.Warnf("Failed to find bookings of service %d: %+v", serviceID, err)
		return nil, err
	}
	return converter.ServiceBookingsToResponses(bookings), nil
}

func (u *serviceBookingUsecase) GetByPatientID(ctx context.Context, patientID int64) ([]dto.ServiceBookingResponse, error) {
	bookings, err := u.bookingRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find bookings of patient %d: %+v", patientID, err)
		return nil, err
	}
	return converter.ServiceBookingsToResponses(bookings), nil
}

func (u *serviceBookingUsecase) GetByStatus(ctx context.Context, status string) ([]dto.ServiceBookingResponse, error) {
	parsed, ok := entity.ParseBookingStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	bookings, err := u.bookingRepo.FindByStatus(u.db.WithContext(ctx), parsed)
	if err != nil {
		u.log.Warnf("Failed to find bookings with status %s: %+v", parsed, err)
		return nil, err
	}
	return converter.ServiceBookingsToResponses(bookings), nil
}

// Cancel marks the booking and its active appointment as cancelled
func (u *serviceBookingUsecase) Cancel(ctx context.Context, caller *entity.Caller, id int64) (*dto.ServiceBookingResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.bookingRepo.FindActiveByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find service booking %d: %+v", id, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrServiceBookingNotFound
	}
	if booking.IsCancelled() {
		return nil, ErrBookingAlreadyCancelled
	}
	oldValue := bookingSnapshot(booking)

	cancelled := entity.BookingStatusCancelled
	if _, err := u.bookingRepo.UpdateStatusAndPrice(tx, id, &cancelled, nil); err != nil {
		u.log.Warnf("Failed to cancel service booking %d: %+v", id, err)
		return nil, err
	}

	if booking.Appointment != nil {
		if _, err := u.appointmentRepo.UpdateStatus(tx, booking.Appointment.ID, entity.AppointmentStatusCancelled); err != nil {
			u.log.Warnf("Failed to cancel appointment %d: %+v", booking.Appointment.ID, err)
			return nil, err
		}
	}

	booking.Cancel()
	if err := u.auditService.LogUpdate(ctx, tx, service.CallerUserID(caller), entity.AuditActionBookingCancel, "service_booking", id, oldValue, bookingSnapshot(booking)); err != nil {
		return nil, err
	}

	updated, err := u.bookingRepo.FindActiveByID(tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.metrics.BookingUpdatesTotal.WithLabelValues(string(entity.BookingStatusCancelled)).Inc()
	return converter.ServiceBookingToResponse(updated), nil
}

func (u *serviceBookingUsecase) DeleteByIDs(ctx context.Context, caller *entity.Caller, ids []int64) (*dto.DeleteResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	result := &dto.DeleteResponse{}
	for _, id := range uniqueIDs(ids) {
		booking, err := u.bookingRepo.FindActiveByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find service booking %d: %+v", id, err)
			return nil, err
		}
		if booking == nil {
			result.NotFound = append(result.NotFound, id)
			continue
		}

		if err := u.bookingRepo.SoftDelete(tx, id); err != nil {
			u.log.Warnf("Failed to delete service booking %d: %+v", id, err)
			return nil, err
		}
		if err := u.auditService.LogDelete(ctx, tx, service.CallerUserID(caller), entity.AuditActionBookingDelete, "service_booking", id, bookingSnapshot(booking)); err != nil {
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

// bookingSnapshot is the audit representation of a booking, without relations
func bookingSnapshot(booking *entity.ServiceBooking) map[string]interface{} {
	return map[string]interface{}{
		"id":          booking.ID,
		"service_id":  booking.ServiceID,
		"patient_id":  booking.PatientID,
		"status":      booking.Status,
		"total_price": booking.TotalPrice.String(),
		"notes":       booking.Notes,
	}
}
