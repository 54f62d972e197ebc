package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/delivery/http/middleware"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/storage"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type savedMedicineCall struct {
	caller         *entity.Caller
	req            *dto.SaveMedicineRequest
	fileNames      []string
	fileContents   []string
	categoryIDs    []int64
	mainImageIndex *int
}

// stubMedicineUsecase overrides the methods under test; the rest panic
type stubMedicineUsecase struct {
	usecase.MedicineUsecase
	saved  *savedMedicineCall
	search *dto.MedicineSearchRequest
	err    error
}

func (s *stubMedicineUsecase) SaveWithDetails(ctx context.Context, caller *entity.Caller, req *dto.SaveMedicineRequest, files []*storage.File, categoryIDs []int64, mainImageIndex *int) (*dto.MedicineWithDetailsResponse, error) {
	call := &savedMedicineCall{caller: caller, req: req, categoryIDs: categoryIDs, mainImageIndex: mainImageIndex}
	for _, file := range files {
		content, _ := io.ReadAll(file.Content)
		call.fileNames = append(call.fileNames, file.Name)
		call.fileContents = append(call.fileContents, string(content))
	}
	s.saved = call
	if s.err != nil {
		return nil, s.err
	}
	return &dto.MedicineWithDetailsResponse{Medicine: dto.MedicineResponse{ID: 7, Name: req.Name}}, nil
}

func (s *stubMedicineUsecase) Search(ctx context.Context, req *dto.MedicineSearchRequest) ([]dto.MedicineResponse, error) {
	s.search = req
	return []dto.MedicineResponse{}, s.err
}

type stubBookingUsecase struct {
	usecase.ServiceBookingUsecase
	caller *entity.Caller
	id     int64
	update *dto.UpdateBookingStatusPriceRequest
	err    error
}

func (s *stubBookingUsecase) UpdateStatusAndPrice(ctx context.Context, caller *entity.Caller, id int64, req *dto.UpdateBookingStatusPriceRequest) (*dto.ServiceBookingResponse, error) {
	s.caller, s.id, s.update = caller, id, req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ServiceBookingResponse{ID: id, Status: "CONFIRMED"}, nil
}

func (s *stubBookingUsecase) GetCallerBookings(ctx context.Context, caller *entity.Caller) ([]dto.ServiceBookingResponse, error) {
	s.caller = caller
	if s.err != nil {
		return nil, s.err
	}
	return []dto.ServiceBookingResponse{}, nil
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func multipartRequest(t *testing.T, fields map[string][]string, files map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, values := range fields {
		for _, value := range values {
			require.NoError(t, writer.WriteField(name, value))
		}
	}
	for name, content := range files {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/medicines/save", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestMedicineHandler_SaveWithDetails(t *testing.T) {
	stub := &stubMedicineUsecase{}
	h := NewMedicineHandler(stub, validator.NewValidator())

	req := multipartRequest(t, map[string][]string{
		"medicine":         {`{"code":"PCT-500","name":"Paracetamol","attributes":[{"name":"Strip","stock":5,"price_in":"1000","price_out":"1500"}]}`},
		"category_ids":     {"3, 4", "5"},
		"main_image_index": {"0"},
	}, map[string]string{"front.png": "png-bytes"})
	caller := &entity.Caller{UserID: 1, Roles: []string{entity.RoleAdmin}}
	req = req.WithContext(middleware.WithCaller(req.Context(), caller))

	rec := httptest.NewRecorder()
	h.SaveWithDetails(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, stub.saved)
	assert.Same(t, caller, stub.saved.caller)
	assert.Equal(t, "Paracetamol", stub.saved.req.Name)
	require.Len(t, stub.saved.req.Attributes, 1)
	assert.Equal(t, "1500", stub.saved.req.Attributes[0].PriceOut.String())
	assert.Equal(t, []int64{3, 4, 5}, stub.saved.categoryIDs)
	require.NotNil(t, stub.saved.mainImageIndex)
	assert.Equal(t, 0, *stub.saved.mainImageIndex)
	assert.Equal(t, []string{"front.png"}, stub.saved.fileNames)
	assert.Equal(t, []string{"png-bytes"}, stub.saved.fileContents)
}

func TestMedicineHandler_SaveWithDetails_BadInput(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string][]string
	}{
		{name: "missing medicine", fields: map[string][]string{}},
		{name: "validation", fields: map[string][]string{"medicine": {`{"code":"X"}`}}},
		{name: "category ids", fields: map[string][]string{"medicine": {`{"code":"X","name":"Y"}`}, "category_ids": {"1,abc"}}},
		{name: "main image index", fields: map[string][]string{"medicine": {`{"code":"X","name":"Y"}`}, "main_image_index": {"first"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubMedicineUsecase{}
			h := NewMedicineHandler(stub, validator.NewValidator())

			rec := httptest.NewRecorder()
			h.SaveWithDetails(rec, multipartRequest(t, tt.fields, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, stub.saved)
		})
	}
}

func TestMedicineHandler_SaveWithDetails_DefaultMainImage(t *testing.T) {
	stub := &stubMedicineUsecase{}
	h := NewMedicineHandler(stub, validator.NewValidator())

	req := multipartRequest(t, map[string][]string{
		"medicine":     {`{"code":"X","name":"Y"}`},
		"category_ids": {"[3,4]"},
	}, map[string]string{"front.png": "png-bytes"})

	rec := httptest.NewRecorder()
	h.SaveWithDetails(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, stub.saved.mainImageIndex)
	assert.Equal(t, 0, *stub.saved.mainImageIndex)
	assert.Equal(t, []int64{3, 4}, stub.saved.categoryIDs)
}

func TestMedicineHandler_SaveWithDetails_WrappedNotFound(t *testing.T) {
	stub := &stubMedicineUsecase{err: fmt.Errorf("error saving medicine with details: %w", usecase.ErrCategoryNotFound)}
	h := NewMedicineHandler(stub, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.SaveWithDetails(rec, multipartRequest(t, map[string][]string{"medicine": {`{"code":"X","name":"Y"}`}}, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMedicineHandler_Search(t *testing.T) {
	stub := &stubMedicineUsecase{}
	h := NewMedicineHandler(stub, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/medicines/search?name=vit&category_id=2&max_price=15000&sort_by=price_asc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.search)
	assert.Equal(t, "vit", stub.search.Name)
	require.NotNil(t, stub.search.CategoryID)
	assert.Equal(t, int64(2), *stub.search.CategoryID)
	require.NotNil(t, stub.search.MaxPrice)
	assert.Equal(t, "15000", stub.search.MaxPrice.String())
	assert.Equal(t, "price_asc", stub.search.SortBy)

	rec = httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/medicines/search?brand_id=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServiceBookingHandler_UpdateStatusAndPrice(t *testing.T) {
	stub := &stubBookingUsecase{}
	h := NewServiceBookingHandler(stub, validator.NewValidator())

	router := mux.NewRouter()
	router.HandleFunc("/service-bookings/{id:[0-9]+}/status-price", h.UpdateStatusAndPrice).Methods(http.MethodPut)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/service-bookings/12/status-price",
		strings.NewReader(`{"status":"CONFIRMED","total_price":"250.00"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), stub.id)
	require.NotNil(t, stub.update.Status)
	assert.Equal(t, "CONFIRMED", *stub.update.Status)
	assert.JSONEq(t, `"250.00"`, string(stub.update.TotalPrice))

	stub.err = fmt.Errorf("%w: %s", usecase.ErrInvalidTotalPrice, "abc")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/service-bookings/12/status-price",
		strings.NewReader(`{"total_price":"abc"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid total_price: abc", decodeResponse(t, rec).Message)
}

func TestServiceBookingHandler_GetMyBookings(t *testing.T) {
	stub := &stubBookingUsecase{err: usecase.ErrForbidden}
	h := NewServiceBookingHandler(stub, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.GetMyBookings(rec, httptest.NewRequest(http.MethodGet, "/service-bookings/me", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, stub.caller)
}

func TestWriteUsecaseError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{usecase.ErrMedicineNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: 9", usecase.ErrDoctorNotFound), http.StatusNotFound},
		{usecase.ErrNoUpdateFields, http.StatusBadRequest},
		{fmt.Errorf("%w: DONE", usecase.ErrInvalidStatus), http.StatusBadRequest},
		{usecase.ErrUnauthenticated, http.StatusUnauthorized},
		{usecase.ErrTokenRevoked, http.StatusUnauthorized},
		{usecase.ErrForbidden, http.StatusForbidden},
		{usecase.ErrUserInactive, http.StatusForbidden},
		{usecase.ErrEmailAlreadyExists, http.StatusConflict},
		{usecase.ErrBookingAlreadyCancelled, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeUsecaseError(rec, tt.err)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestWriteUsecaseError_ExceptionBody(t *testing.T) {
	rec := httptest.NewRecorder()
	writeUsecaseError(rec, errors.New("connection reset"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeResponse(t, rec)
	assert.False(t, body.Success)
	detail, ok := body.Error.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "connection reset", detail["message"])
	assert.Equal(t, "*errors.errorString", detail["type"])
}

func TestParseCategoryIDs(t *testing.T) {
	ids, err := parseCategoryIDs([]string{"1,2", " ", "3"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = parseCategoryIDs([]string{"x"})
	assert.EqualError(t, err, "invalid category_ids: x")
}

func TestParseCategoryIDs_JSONArray(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    []int64
		wantErr string
	}{
		{name: "array", values: []string{"[1,2]"}, want: []int64{1, 2}},
		{name: "padded array", values: []string{" [ 7 , 8 ] "}, want: []int64{7, 8}},
		{name: "array then list", values: []string{"[1]", "2,3"}, want: []int64{1, 2, 3}},
		{name: "empty array", values: []string{"[]"}, want: []int64{}},
		{name: "strings in array", values: []string{`["a"]`}, wantErr: `invalid category_ids: ["a"]`},
		{name: "unterminated", values: []string{"[1,2"}, wantErr: "invalid category_ids: [1,2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := parseCategoryIDs(tt.values)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids)
		})
	}
}
