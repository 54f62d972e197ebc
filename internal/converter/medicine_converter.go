package converter

import (
	"time"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

// FormatDate renders an optional calendar date in dto.DateLayout
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dto.DateLayout)
	return &s
}

// BrandToResponse converts a Brand entity to BrandResponse DTO
func BrandToResponse(brand *entity.Brand) *dto.BrandResponse {
	if brand == nil {
		return nil
	}
	return &dto.BrandResponse{
		ID:    brand.ID,
		Name:  brand.Name,
		Image: brand.Image,
	}
}

func BrandsToResponses(brands []entity.Brand) []dto.BrandResponse {
	responses := make([]dto.BrandResponse, 0, len(brands))
	for i := range brands {
		responses = append(responses, *BrandToResponse(&brands[i]))
	}
	return responses
}

// CategoriesToResponses converts categories, skipping soft-deleted rows
func CategoriesToResponses(categories []entity.Category) []dto.CategoryResponse {
	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		if category.IsDeleted {
			continue
		}
		responses = append(responses, dto.CategoryResponse{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
		})
	}
	return responses
}

// AttributeToResponse converts an Attribute entity, deriving the expiry flags at now
func AttributeToResponse(attribute *entity.Attribute, now time.Time) *dto.AttributeResponse {
	if attribute == nil {
		return nil
	}
	return &dto.AttributeResponse{
		ID:           attribute.ID,
		MedicineID:   attribute.MedicineID,
		Name:         attribute.Name,
		Stock:        attribute.Stock,
		PriceIn:      attribute.PriceIn,
		PriceOut:     attribute.PriceOut,
		ExpiryDate:   FormatDate(attribute.ExpiryDate),
		IsExpired:    attribute.IsExpired(now),
		IsNearExpiry: attribute.IsNearExpiry(now),
		CreatedAt:    attribute.CreatedAt,
		UpdatedAt:    attribute.UpdatedAt,
	}
}

// AttributesToResponses converts attributes, skipping soft-deleted rows
func AttributesToResponses(attributes []entity.Attribute, now time.Time) []dto.AttributeResponse {
	responses := make([]dto.AttributeResponse, 0, len(attributes))
	for i := range attributes {
		if attributes[i].IsDeleted {
			continue
		}
		responses = append(responses, *AttributeToResponse(&attributes[i], now))
	}
	return responses
}

// MediasToResponses converts media rows, skipping soft-deleted rows
func MediasToResponses(medias []entity.MedicineMedia) []dto.MedicineMediaResponse {
	responses := make([]dto.MedicineMediaResponse, 0, len(medias))
	for _, media := range medias {
		if media.IsDeleted {
			continue
		}
		responses = append(responses, dto.MedicineMediaResponse{
			ID:         media.ID,
			MedicineID: media.MedicineID,
			MediaURL:   media.MediaURL,
			MainImage:  media.MainImage,
		})
	}
	return responses
}

// MedicineToResponse converts a Medicine entity and the collections loaded
// for it into a MedicineResponse DTO
func MedicineToResponse(medicine *entity.Medicine, attributes []entity.Attribute, categories []entity.Category, medias []entity.MedicineMedia, now time.Time) *dto.MedicineResponse {
	if medicine == nil {
		return nil
	}

	response := &dto.MedicineResponse{
		ID:                     medicine.ID,
		Code:                   medicine.Code,
		Name:                   medicine.Name,
		Description:            medicine.Description,
		Origin:                 medicine.Origin,
		IsPrescriptionRequired: medicine.IsPrescriptionRequired,
		UsageInstruction:       medicine.UsageInstruction,
		DosageInstruction:      medicine.DosageInstruction,
		BrandID:                medicine.BrandID,
		Attributes:             AttributesToResponses(attributes, now),
		Categories:             CategoriesToResponses(categories),
		Medias:                 MediasToResponses(medias),
		CreatedAt:              medicine.CreatedAt,
		UpdatedAt:              medicine.UpdatedAt,
	}

	if medicine.Brand != nil && !medicine.Brand.IsDeleted {
		response.Brand = BrandToResponse(medicine.Brand)
	}

	for _, media := range response.Medias {
		if media.MainImage {
			response.MainImage = media.MediaURL
			break
		}
	}

	return response
}

// MedicineToSummary converts a Medicine entity to its short form
func MedicineToSummary(medicine *entity.Medicine) *dto.MedicineSummaryResponse {
	if medicine == nil || medicine.ID == 0 {
		return nil
	}
	return &dto.MedicineSummaryResponse{
		ID:   medicine.ID,
		Code: medicine.Code,
		Name: medicine.Name,
	}
}
