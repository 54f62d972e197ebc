package handler

import (
	"encoding/json"
	"net/http"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"
)

type AttributeHandler struct {
	attributeUsecase usecase.AttributeUsecase
	validator        *validator.CustomValidator
}

func NewAttributeHandler(attributeUsecase usecase.AttributeUsecase, validator *validator.CustomValidator) *AttributeHandler {
	return &AttributeHandler{
		attributeUsecase: attributeUsecase,
		validator:        validator,
	}
}

func (h *AttributeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	attributes, err := h.attributeUsecase.GetAll(r.Context())
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Attributes retrieved successfully", attributes)
}

func (h *AttributeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid attribute ID")
		return
	}

	attribute, err := h.attributeUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Attribute retrieved successfully", attribute)
}

func (h *AttributeHandler) GetByMedicineID(w http.ResponseWriter, r *http.Request) {
	medicineID, err := parseIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid medicine ID")
		return
	}

	attributes, err := h.attributeUsecase.GetByMedicineID(r.Context(), medicineID)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Attributes retrieved successfully", attributes)
}

func (h *AttributeHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	attribute, err := h.attributeUsecase.Save(r.Context(), callerFrom(r), &req)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Attribute saved successfully", attribute)
}

func (h *AttributeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeIDList(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.attributeUsecase.DeleteByIDs(r.Context(), callerFrom(r), ids)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Attributes deleted successfully", result)
}
