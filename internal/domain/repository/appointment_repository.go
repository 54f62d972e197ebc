package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Save(db *gorm.DB, appointment *entity.Appointment) error
	FindActive(db *gorm.DB) ([]entity.Appointment, error)
	FindActiveByID(db *gorm.DB, id int64) (*entity.Appointment, error)
	FindActiveByServiceBookingID(db *gorm.DB, serviceBookingID int64) (*entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID int64) ([]entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID int64) ([]entity.Appointment, error)
	UpdateStatus(db *gorm.DB, id int64, status entity.AppointmentStatus) (int64, error)
	ExistsByID(db *gorm.DB, id int64) (bool, error)
	SoftDelete(db *gorm.DB, id int64) error
}

type ConsultationRepository interface {
	Save(db *gorm.DB, consultation *entity.Consultation) error
	FindByAppointmentID(db *gorm.DB, appointmentID int64) (*entity.Consultation, error)
}
