package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"clinic-backend/internal/delivery/http/middleware"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/storage"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"

	"github.com/gorilla/mux"
)

const maxMultipartMemory = 32 << 20

// parseIDParam reads a positive int64 path variable
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// decodeIDList reads a JSON array of ids from the request body
func decodeIDList(r *http.Request) ([]int64, error) {
	var ids []int64
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		return nil, errors.New("request body must be a JSON array of ids")
	}
	return ids, nil
}

// optionalInt64Query parses an optional int64 query parameter
func optionalInt64Query(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return &value, nil
}

func callerFrom(r *http.Request) *entity.Caller {
	caller, _ := middleware.GetCallerFromContext(r.Context())
	return caller
}

// openFiles turns multipart file headers into storage files. The returned
// closer must be called once the files are no longer read.
func openFiles(headers []*multipart.FileHeader) ([]*storage.File, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	files := make([]*storage.File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		opened = append(opened, f)
		files = append(files, &storage.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     f,
		})
	}
	return files, closeAll, nil
}

// writeUsecaseError maps usecase errors onto HTTP responses. Unknown errors
// become a 500 echoing the error text and type.
func writeUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrMedicineNotFound),
		errors.Is(err, usecase.ErrBrandNotFound),
		errors.Is(err, usecase.ErrCategoryNotFound),
		errors.Is(err, usecase.ErrAttributeNotFound),
		errors.Is(err, usecase.ErrServiceNotFound),
		errors.Is(err, usecase.ErrDoctorNotFound),
		errors.Is(err, usecase.ErrPatientNotFound),
		errors.Is(err, usecase.ErrServiceBookingNotFound),
		errors.Is(err, usecase.ErrAppointmentNotFound),
		errors.Is(err, usecase.ErrPrescriptionNotFound),
		errors.Is(err, usecase.ErrAuditLogNotFound),
		errors.Is(err, usecase.ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrNoUpdateFields),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrInvalidTotalPrice),
		errors.Is(err, usecase.ErrInvalidDateFormat),
		errors.Is(err, usecase.ErrInvalidTimeFormat),
		errors.Is(err, usecase.ErrAttributeMedicineMiss),
		errors.Is(err, storage.ErrEmptyFile):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrUnauthenticated),
		errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, usecase.ErrForbidden),
		errors.Is(err, usecase.ErrUserInactive):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrEmailAlreadyExists),
		errors.Is(err, usecase.ErrLicenseAlreadyExists),
		errors.Is(err, usecase.ErrBookingAlreadyCancelled),
		errors.Is(err, usecase.ErrBookingAlreadyScheduled):
		response.Conflict(w, err.Error())
	default:
		response.Exception(w, err)
	}
}
