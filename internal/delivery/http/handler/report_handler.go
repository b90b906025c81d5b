package handler

import (
	"net/http"

	"clinic-management/internal/usecase"
	"clinic-management/pkg/response"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
	searchUsecase usecase.SearchUsecase
}

func NewReportHandler(reportUsecase usecase.ReportUsecase, searchUsecase usecase.SearchUsecase) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
		searchUsecase: searchUsecase,
	}
}

// Dashboard godoc
// @Summary Clinic dashboard counts
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reportUsecase.Dashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to build dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

// DoctorWorkload godoc
// @Summary Scheduled appointments per active doctor
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /reports/doctor-workload [get]
func (h *ReportHandler) DoctorWorkload(w http.ResponseWriter, r *http.Request) {
	workload, err := h.reportUsecase.DoctorWorkload(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get doctor workload")
		return
	}

	response.Success(w, http.StatusOK, "Doctor workload retrieved successfully", workload)
}

// Search godoc
// @Summary Search doctors, services and patients
// @Tags Search
// @Security BearerAuth
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} response.Response
// @Router /search [get]
func (h *ReportHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.searchUsecase.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.InternalServerError(w, "Failed to search")
		return
	}

	response.Success(w, http.StatusOK, "Search completed", result)
}
