package entity

import "github.com/shopspring/decimal"

// BookingStatus represents the status of a service booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// BookingStatuses lists every known booking status
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// ParseBookingStatus returns the status matching s exactly
func ParseBookingStatus(s string) (BookingStatus, bool) {
	for _, status := range BookingStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// ServiceBooking is a patient's request for a service
type ServiceBooking struct {
	BaseEntity
	ServiceID  int64           `gorm:"not null;index" json:"service_id"`
	PatientID  int64           `gorm:"not null;index" json:"patient_id"`
	Status     BookingStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`

	// Relationships
	Service     Service        `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Patient     PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Appointment *Appointment   `gorm:"foreignKey:ServiceBookingID" json:"appointment,omitempty"`
}

func (ServiceBooking) TableName() string {
	return "service_bookings"
}

// IsCancelled checks if booking is cancelled
func (b *ServiceBooking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// Cancel changes booking status to cancelled
func (b *ServiceBooking) Cancel() {
	b.Status = BookingStatusCancelled
}
