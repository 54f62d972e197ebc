package handler

import (
	"encoding/json"
	"net/http"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/storage"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"
)

type ServiceHandler struct {
	serviceUsecase usecase.ServiceUsecase
	validator      *validator.CustomValidator
}

func NewServiceHandler(serviceUsecase usecase.ServiceUsecase, validator *validator.CustomValidator) *ServiceHandler {
	return &ServiceHandler{
		serviceUsecase: serviceUsecase,
		validator:      validator,
	}
}

// SaveWithDoctors handles the service save with doctor reconciliation
// @Summary Save a service and its doctors
// @Tags Services
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param service formData string true "Service JSON"
// @Param file formData file false "Image"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /services/save-with-doctors [post]
func (h *ServiceHandler) SaveWithDoctors(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	var req dto.SaveServiceRequest
	if err := json.Unmarshal([]byte(r.FormValue("service")), &req); err != nil {
		response.BadRequest(w, "Invalid service payload")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	var file *storage.File
	if headers := r.MultipartForm.File["file"]; len(headers) > 0 {
		files, closeFiles, err := openFiles(headers[:1])
		if err != nil {
			response.BadRequest(w, "Invalid file")
			return
		}
		defer closeFiles()
		file = files[0]
	}

	result, err := h.serviceUsecase.SaveWithDoctors(r.Context(), callerFrom(r), &req, file)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Service saved successfully", result)
}

func (h *ServiceHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	services, err := h.serviceUsecase.GetAll(r.Context())
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

func (h *ServiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	svc, err := h.serviceUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Service retrieved successfully", svc)
}

func (h *ServiceHandler) FindByName(w http.ResponseWriter, r *http.Request) {
	services, err := h.serviceUsecase.FindByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

func (h *ServiceHandler) GetDoctorIDs(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	doctorIDs, err := h.serviceUsecase.GetDoctorIDs(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctorIDs)
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeIDList(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.serviceUsecase.DeleteByIDs(r.Context(), callerFrom(r), ids)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Services deleted successfully", result)
}
