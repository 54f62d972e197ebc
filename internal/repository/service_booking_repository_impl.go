package repository

import (
	"time"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type serviceBookingRepository struct{}

func NewServiceBookingRepository() domainRepo.ServiceBookingRepository {
	return &serviceBookingRepository{}
}

func (r *serviceBookingRepository) Save(db *gorm.DB, booking *entity.ServiceBooking) error {
	return db.Omit(clause.Associations).Save(booking).Error
}

func (r *serviceBookingRepository) FindActive(db *gorm.DB) ([]entity.ServiceBooking, error) {
	return r.find(db.Scopes(notDeleted))
}

func (r *serviceBookingRepository) FindActiveByID(db *gorm.DB, id int64) (*entity.ServiceBooking, error) {
	var booking entity.ServiceBooking
	err := r.preload(db).Scopes(notDeleted).Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, firstOrNil(err)
	}
	return &booking, nil
}

func (r *serviceBookingRepository) FindByServiceID(db *gorm.DB, serviceID int64) ([]entity.ServiceBooking, error) {
	return r.find(db.Scopes(notDeleted).Where("service_id = ?", serviceID))
}

func (r *serviceBookingRepository) FindByPatientID(db *gorm.DB, patientID int64) ([]entity.ServiceBooking, error) {
	return r.find(db.Scopes(notDeleted).Where("patient_id = ?", patientID))
}

func (r *serviceBookingRepository) FindByStatus(db *gorm.DB, status entity.BookingStatus) ([]entity.ServiceBooking, error) {
	return r.find(db.Scopes(notDeleted).Where("status = ?", status))
}

// FindByDoctorID returns the active bookings whose active appointment
// is assigned to the doctor.
func (r *serviceBookingRepository) FindByDoctorID(db *gorm.DB, doctorID int64) ([]entity.ServiceBooking, error) {
	return r.find(db.
		Joins("JOIN appointments a ON a.service_booking_id = service_bookings.id").
		Where("a.doctor_id = ? AND a.is_deleted = ? AND service_bookings.is_deleted = ?", doctorID, false, false))
}

// UpdateStatusAndPrice writes only the supplied fields of an active booking.
// Returns affected rows: 0 means the booking does not exist.
func (r *serviceBookingRepository) UpdateStatusAndPrice(db *gorm.DB, id int64, status *entity.BookingStatus, totalPrice *decimal.Decimal) (int64, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if status != nil {
		updates["status"] = *status
	}
	if totalPrice != nil {
		updates["total_price"] = *totalPrice
	}

	result := db.Model(&entity.ServiceBooking{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *serviceBookingRepository) ExistsByID(db *gorm.DB, id int64) (bool, error) {
	var count int64
	err := db.Model(&entity.ServiceBooking{}).Scopes(notDeleted).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *serviceBookingRepository) SoftDelete(db *gorm.DB, id int64) error {
	return db.Model(&entity.ServiceBooking{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(entity.SoftDeleteColumns(time.Now())).Error
}

func (r *serviceBookingRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Service").
		Preload("Patient.User").
		Preload("Appointment", "is_deleted = ?", false).
		Preload("Appointment.Doctor.User")
}

func (r *serviceBookingRepository) find(query *gorm.DB) ([]entity.ServiceBooking, error) {
	var bookings []entity.ServiceBooking
	err := r.preload(query).Order("service_bookings.id ASC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
