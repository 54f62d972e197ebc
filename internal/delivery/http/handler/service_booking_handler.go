package handler

import (
	"encoding/json"
	"net/http"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"

	"github.com/gorilla/mux"
)

type ServiceBookingHandler struct {
	bookingUsecase usecase.ServiceBookingUsecase
	validator      *validator.CustomValidator
}

func NewServiceBookingHandler(bookingUsecase usecase.ServiceBookingUsecase, validator *validator.CustomValidator) *ServiceBookingHandler {
	return &ServiceBookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// GetMyBookings lists the bookings of the authenticated doctor or patient
// @Summary List the caller's bookings
// @Tags Service Bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /service-bookings/me [get]
func (h *ServiceBookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetCallerBookings(r.Context(), callerFrom(r))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// UpdateStatusAndPrice changes the status and/or total price of a booking
// @Summary Update booking status and price
// @Tags Service Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body dto.UpdateBookingStatusPriceRequest true "Status and price"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /service-bookings/{id}/status-price [put]
func (h *ServiceBookingHandler) UpdateStatusAndPrice(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req dto.UpdateBookingStatusPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	booking, err := h.bookingUsecase.UpdateStatusAndPrice(r.Context(), callerFrom(r), id, &req)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Booking updated successfully", booking)
}

func (h *ServiceBookingHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetAll(r.Context())
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *ServiceBookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	booking, err := h.bookingUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

func (h *ServiceBookingHandler) GetByServiceID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	bookings, err := h.bookingUsecase.GetByServiceID(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *ServiceBookingHandler) GetByPatientID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	bookings, err := h.bookingUsecase.GetByPatientID(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *ServiceBookingHandler) GetByStatus(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetByStatus(r.Context(), mux.Vars(r)["status"])
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *ServiceBookingHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveServiceBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.Save(r.Context(), callerFrom(r), &req)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Booking saved successfully", booking)
}

func (h *ServiceBookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	booking, err := h.bookingUsecase.Cancel(r.Context(), callerFrom(r), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", booking)
}

func (h *ServiceBookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeIDList(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.bookingUsecase.DeleteByIDs(r.Context(), callerFrom(r), ids)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Bookings deleted successfully", result)
}
