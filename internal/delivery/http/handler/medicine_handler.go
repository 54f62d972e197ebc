package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"

	"github.com/shopspring/decimal"
)

type MedicineHandler struct {
	medicineUsecase usecase.MedicineUsecase
	validator       *validator.CustomValidator
}

func NewMedicineHandler(medicineUsecase usecase.MedicineUsecase, validator *validator.CustomValidator) *MedicineHandler {
	return &MedicineHandler{
		medicineUsecase: medicineUsecase,
		validator:       validator,
	}
}

// SaveWithDetails handles the composite medicine save
// @Summary Save a medicine with attributes, categories and images
// @Tags Medicines
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param medicine formData string true "Medicine JSON"
// @Param category_ids formData string false "Category ids: JSON array, repeated or comma separated"
// @Param main_image_index formData int false "Index of the main image among images, default 0"
// @Param images formData file false "Images"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /medicines/save [post]
func (h *MedicineHandler) SaveWithDetails(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	var req dto.SaveMedicineRequest
	if err := json.Unmarshal([]byte(r.FormValue("medicine")), &req); err != nil {
		response.BadRequest(w, "Invalid medicine payload")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	categoryIDs, err := parseCategoryIDs(r.MultipartForm.Value["category_ids"])
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	// the first image is the main one unless main_image_index says otherwise
	mainImageIndex := 0
	if raw := strings.TrimSpace(r.FormValue("main_image_index")); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid main_image_index")
			return
		}
		mainImageIndex = index
	}

	files, closeFiles, err := openFiles(r.MultipartForm.File["images"])
	if err != nil {
		response.BadRequest(w, "Invalid images")
		return
	}
	defer closeFiles()

	result, err := h.medicineUsecase.SaveWithDetails(r.Context(), callerFrom(r), &req, files, categoryIDs, &mainImageIndex)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medicine saved successfully", result)
}

// parseCategoryIDs accepts repeated fields, JSON arrays and comma separated
// lists
func parseCategoryIDs(values []string) ([]int64, error) {
	var ids []int64
	for _, value := range values {
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, "[") {
			var list []int64
			if err := json.Unmarshal([]byte(value), &list); err != nil {
				return nil, fmt.Errorf("invalid category_ids: %s", value)
			}
			ids = append(ids, list...)
			continue
		}
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid category_ids: %s", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Search handles the filtered medicine listing
// @Summary Search medicines
// @Tags Medicines
// @Produce json
// @Param name query string false "Name contains"
// @Param code query string false "Exact code"
// @Param category_id query int false "Category"
// @Param brand_id query int false "Brand"
// @Param max_price query number false "Highest attribute price"
// @Param sort_by query string false "price_asc, price_desc, name_asc or name_desc"
// @Success 200 {object} response.Response
// @Router /medicines/search [get]
func (h *MedicineHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.MedicineSearchRequest{
		Name:   strings.TrimSpace(query.Get("name")),
		Code:   strings.TrimSpace(query.Get("code")),
		SortBy: strings.TrimSpace(query.Get("sort_by")),
	}

	var err error
	if req.CategoryID, err = optionalInt64Query(r, "category_id"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if req.BrandID, err = optionalInt64Query(r, "brand_id"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if raw := strings.TrimSpace(query.Get("max_price")); raw != "" {
		maxPrice, err := decimal.NewFromString(raw)
		if err != nil || maxPrice.IsNegative() {
			response.BadRequest(w, "invalid max_price: "+raw)
			return
		}
		req.MaxPrice = &maxPrice
	}

	medicines, err := h.medicineUsecase.Search(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medicines retrieved successfully", medicines)
}

func (h *MedicineHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.medicineUsecase.GetAll(r.Context())
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medicines retrieved successfully", medicines)
}

func (h *MedicineHandler) GetNewest(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.medicineUsecase.GetNewest(r.Context())
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medicines retrieved successfully", medicines)
}

func (h *MedicineHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid medicine ID")
		return
	}

	medicine, err := h.medicineUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medicine retrieved successfully", medicine)
}

func (h *MedicineHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid medicine ID")
		return
	}

	details, err := h.medicineUsecase.GetDetails(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medicine retrieved successfully", details)
}

func (h *MedicineHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		response.BadRequest(w, "code is required")
		return
	}

	medicine, err := h.medicineUsecase.GetByCode(r.Context(), code)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medicine retrieved successfully", medicine)
}

func (h *MedicineHandler) FindByName(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.medicineUsecase.FindByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medicines retrieved successfully", medicines)
}

func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeIDList(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.medicineUsecase.DeleteByIDs(r.Context(), callerFrom(r), ids)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Medicines deleted successfully", result)
}
