package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

// ServiceBookingToResponse converts a ServiceBooking entity to its detailed
// response. Service, patient and appointment are included when loaded.
func ServiceBookingToResponse(booking *entity.ServiceBooking) *dto.ServiceBookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.ServiceBookingResponse{
		ID:          booking.ID,
		ServiceID:   booking.ServiceID,
		ServiceName: booking.Service.Name,
		PatientID:   booking.PatientID,
		PatientName: booking.Patient.User.FullName,
		Status:      string(booking.Status),
		TotalPrice:  booking.TotalPrice,
		Notes:       booking.Notes,
		CreatedAt:   booking.CreatedAt,
		UpdatedAt:   booking.UpdatedAt,
	}

	if appointment := booking.Appointment; appointment != nil && !appointment.IsDeleted {
		response.Appointment = &dto.AppointmentSummaryResponse{
			ID:              appointment.ID,
			DoctorID:        appointment.DoctorID,
			DoctorName:      appointment.Doctor.User.FullName,
			AppointmentDate: appointment.AppointmentDate.Format(dto.DateLayout),
			AppointmentTime: appointment.AppointmentTime,
			Status:          string(appointment.Status),
		}
	}

	return response
}

// ServiceBookingsToResponses converts a slice of ServiceBooking entities to slice of ServiceBookingResponse DTOs
func ServiceBookingsToResponses(bookings []entity.ServiceBooking) []dto.ServiceBookingResponse {
	responses := make([]dto.ServiceBookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, *ServiceBookingToResponse(&bookings[i]))
	}
	return responses
}
