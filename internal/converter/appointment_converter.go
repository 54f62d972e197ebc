package converter

import (
	"time"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

func ConsultationToResponse(consultation *entity.Consultation) *dto.ConsultationResponse {
	if consultation == nil || consultation.IsDeleted {
		return nil
	}
	return &dto.ConsultationResponse{
		ID:            consultation.ID,
		AppointmentID: consultation.AppointmentID,
		Symptoms:      consultation.Symptoms,
		Diagnosis:     consultation.Diagnosis,
		Notes:         consultation.Notes,
		CreatedAt:     consultation.CreatedAt,
		UpdatedAt:     consultation.UpdatedAt,
	}
}

// AppointmentToResponse converts an Appointment entity; consultation and
// prescriptions are included when loaded
func AppointmentToResponse(appointment *entity.Appointment, now time.Time) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:               appointment.ID,
		PatientID:        appointment.PatientID,
		PatientName:      appointment.Patient.User.FullName,
		DoctorID:         appointment.DoctorID,
		DoctorName:       appointment.Doctor.User.FullName,
		ServiceBookingID: appointment.ServiceBookingID,
		AppointmentDate:  appointment.AppointmentDate.Format(dto.DateLayout),
		AppointmentTime:  appointment.AppointmentTime,
		Status:           string(appointment.Status),
		Consultation:     ConsultationToResponse(appointment.Consultation),
		CreatedAt:        appointment.CreatedAt,
		UpdatedAt:        appointment.UpdatedAt,
	}

	if len(appointment.Prescriptions) > 0 {
		response.Prescriptions = PrescriptionsToResponses(appointment.Prescriptions, now)
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment, now time.Time) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, *AppointmentToResponse(&appointments[i], now))
	}
	return responses
}
