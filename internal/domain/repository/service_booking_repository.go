package repository

import (
	"clinic-backend/internal/domain/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ServiceBookingRepository interface {
	Save(db *gorm.DB, booking *entity.ServiceBooking) error
	FindActive(db *gorm.DB) ([]entity.ServiceBooking, error)
	FindActiveByID(db *gorm.DB, id int64) (*entity.ServiceBooking, error)
	FindByServiceID(db *gorm.DB, serviceID int64) ([]entity.ServiceBooking, error)
	FindByPatientID(db *gorm.DB, patientID int64) ([]entity.ServiceBooking, error)
	FindByStatus(db *gorm.DB, status entity.BookingStatus) ([]entity.ServiceBooking, error)
	FindByDoctorID(db *gorm.DB, doctorID int64) ([]entity.ServiceBooking, error)
	UpdateStatusAndPrice(db *gorm.DB, id int64, status *entity.BookingStatus, totalPrice *decimal.Decimal) (int64, error)
	ExistsByID(db *gorm.DB, id int64) (bool, error)
	SoftDelete(db *gorm.DB, id int64) error
}
