package repository

import (
	"time"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Save(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Save(appointment).Error
}

func (r *appointmentRepository) FindActive(db *gorm.DB) ([]entity.Appointment, error) {
	return r.find(db.Scopes(notDeleted))
}

func (r *appointmentRepository) FindActiveByID(db *gorm.DB, id int64) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.preload(db).
		Preload("Consultation", "is_deleted = ?", false).
		Preload("Prescriptions", "is_deleted = ?", false).
		Preload("Prescriptions.Medicine").
		Scopes(notDeleted).
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		return nil, firstOrNil(err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByServiceBookingID(db *gorm.DB, serviceBookingID int64) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Scopes(notDeleted).Where("service_booking_id = ?", serviceBookingID).First(&appointment).Error
	if err != nil {
		return nil, firstOrNil(err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID int64) ([]entity.Appointment, error) {
	return r.find(db.Scopes(notDeleted).Where("doctor_id = ?", doctorID))
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID int64) ([]entity.Appointment, error) {
	return r.find(db.Scopes(notDeleted).Where("patient_id = ?", patientID))
}

// UpdateStatus returns affected rows: 0 means the appointment does not exist.
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id int64, status entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) ExistsByID(db *gorm.DB, id int64) (bool, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).Scopes(notDeleted).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *appointmentRepository) SoftDelete(db *gorm.DB, id int64) error {
	return db.Model(&entity.Appointment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(entity.SoftDeleteColumns(time.Now())).Error
}

func (r *appointmentRepository) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Patient.User").Preload("Doctor.User")
}

func (r *appointmentRepository) find(query *gorm.DB) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.preload(query).
		Order("appointment_date ASC").Order("appointment_time ASC").Order("id ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

type consultationRepository struct{}

func NewConsultationRepository() domainRepo.ConsultationRepository {
	return &consultationRepository{}
}

func (r *consultationRepository) Save(db *gorm.DB, consultation *entity.Consultation) error {
	return db.Omit(clause.Associations).Save(consultation).Error
}

func (r *consultationRepository) FindByAppointmentID(db *gorm.DB, appointmentID int64) (*entity.Consultation, error) {
	var consultation entity.Consultation
	err := db.Scopes(notDeleted).Where("appointment_id = ?", appointmentID).First(&consultation).Error
	if err != nil {
		return nil, firstOrNil(err)
	}
	return &consultation, nil
}
