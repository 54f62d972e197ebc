package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

// ServiceToResponse converts a Service entity to ServiceResponse DTO
func ServiceToResponse(service *entity.Service) *dto.ServiceResponse {
	if service == nil {
		return nil
	}
	return &dto.ServiceResponse{
		ID:          service.ID,
		Name:        service.Name,
		Price:       service.Price,
		Image:       service.Image,
		Description: service.Description,
		CreatedAt:   service.CreatedAt,
		UpdatedAt:   service.UpdatedAt,
	}
}

func ServicesToResponses(services []entity.Service) []dto.ServiceResponse {
	responses := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		responses = append(responses, *ServiceToResponse(&services[i]))
	}
	return responses
}

// DoctorServicesToResponses converts active doctor links, skipping soft-deleted rows
func DoctorServicesToResponses(links []entity.DoctorService) []dto.DoctorServiceResponse {
	responses := make([]dto.DoctorServiceResponse, 0, len(links))
	for _, link := range links {
		if link.IsDeleted {
			continue
		}
		responses = append(responses, dto.DoctorServiceResponse{
			ID:             link.ID,
			DoctorID:       link.DoctorID,
			ServiceID:      link.ServiceID,
			DoctorName:     link.Doctor.User.FullName,
			Specialization: link.Doctor.Specialization,
		})
	}
	return responses
}
