package converter

import (
	"time"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

// PrescriptionToResponse converts a Prescription entity, deriving validity at now
func PrescriptionToResponse(prescription *entity.Prescription, now time.Time) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}
	return &dto.PrescriptionResponse{
		ID:               prescription.ID,
		PatientID:        prescription.PatientID,
		DoctorID:         prescription.DoctorID,
		AppointmentID:    prescription.AppointmentID,
		MedicineID:       prescription.MedicineID,
		Medicine:         MedicineToSummary(&prescription.Medicine),
		Dosage:           prescription.Dosage,
		PrescriptionDate: prescription.PrescriptionDate,
		ExpiryDate:       FormatDate(prescription.ExpiryDate),
		Notes:            prescription.Notes,
		Status:           string(prescription.Status),
		IsValid:          prescription.IsValid(now),
		IsNearingExpiry:  prescription.IsNearingExpiry(now),
		CreatedAt:        prescription.CreatedAt,
		UpdatedAt:        prescription.UpdatedAt,
	}
}

// PrescriptionsToResponses converts prescriptions, skipping soft-deleted rows
func PrescriptionsToResponses(prescriptions []entity.Prescription, now time.Time) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, 0, len(prescriptions))
	for i := range prescriptions {
		if prescriptions[i].IsDeleted {
			continue
		}
		responses = append(responses, *PrescriptionToResponse(&prescriptions[i], now))
	}
	return responses
}
