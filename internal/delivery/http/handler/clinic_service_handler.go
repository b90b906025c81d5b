package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/usecase"
	"clinic-management/pkg/response"
	"clinic-management/pkg/validator"
)

type ClinicServiceHandler struct {
	serviceUsecase usecase.ClinicServiceUsecase
	validator      *validator.CustomValidator
}

func NewClinicServiceHandler(serviceUsecase usecase.ClinicServiceUsecase, validator *validator.CustomValidator) *ClinicServiceHandler {
	return &ClinicServiceHandler{
		serviceUsecase: serviceUsecase,
		validator:      validator,
	}
}

// Create godoc
// @Summary Create a clinic service
// @Tags Services
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateClinicServiceRequest true "Service"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /services [post]
func (h *ClinicServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClinicServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	service, err := h.serviceUsecase.Create(r.Context(), &req)
	if err != nil {
		writeClinicServiceError(w, err, "Failed to create service")
		return
	}

	response.Success(w, http.StatusCreated, "Service created successfully", service)
}

// GetAll godoc
// @Summary List clinic services
// @Tags Services
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /services [get]
func (h *ClinicServiceHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	services, total, err := h.serviceUsecase.GetAll(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get services")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Services retrieved successfully", services, response.NewMeta(limit, (page-1)*limit, total))
}

func (h *ClinicServiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	service, err := h.serviceUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeClinicServiceError(w, err, "Failed to get service")
		return
	}

	response.Success(w, http.StatusOK, "Service retrieved successfully", service)
}

func (h *ClinicServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	var req dto.UpdateClinicServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	service, err := h.serviceUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeClinicServiceError(w, err, "Failed to update service")
		return
	}

	response.Success(w, http.StatusOK, "Service updated successfully", service)
}

func (h *ClinicServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	if err := h.serviceUsecase.Delete(r.Context(), id); err != nil {
		writeClinicServiceError(w, err, "Failed to delete service")
		return
	}

	response.Success(w, http.StatusOK, "Service deleted successfully", nil)
}

func writeClinicServiceError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrClinicServiceNotFound:
		response.NotFound(w, "Service not found")
	case usecase.ErrSpecializationNotFound:
		response.NotFound(w, "Specialization not found")
	case usecase.ErrClinicServiceCodeExists:
		response.Conflict(w, err.Error(), nil)
	case usecase.ErrInvalidPrice:
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
