package handler

import (
	"net/http"
	"time"

	"github.com/doorline/leadcapture-api/internal/auth"
	"github.com/doorline/leadcapture-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LeadHandler struct {
	dashboardService *service.DashboardService
	exportService    *service.ExportService
	logger           *zap.Logger
}

func NewLeadHandler(dashboardService *service.DashboardService, exportService *service.ExportService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		dashboardService: dashboardService,
		exportService:    exportService,
		logger:           logger,
	}
}

// List godoc
// @Summary List leads
// @Description Newest first. Users see their own leads, admins see all. A failed fetch returns an empty list with degraded=true.
// @Tags Leads
// @Produce json
// @Param search query string false "Case-insensitive match on lead number, customer name or project name"
// @Success 200 {object} domain.LeadListResponse
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /leads [get]
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.dashboardService.ListLeads(r.Context(), identity, r.URL.Query().Get("search")))
}

// GetByID godoc
// @Summary Open a lead
// @Description Returns a stored lead as form data and review summary (view mode)
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} domain.LeadDetailDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /leads/{id} [get]
func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID")
		return
	}

	lead, err := h.dashboardService.GetLead(r.Context(), identity, id)
	if err != nil {
		handleError(w, h.logger, err, "Failed to get lead")
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

// Export godoc
// @Summary Export leads as CSV
// @Tags Leads
// @Produce text/csv
// @Success 200 {file} file
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /leads/export [get]
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename := "leads-" + time.Now().UTC().Format("20060102") + ".csv"
	w.Header().Set("Content-Type", service.ExportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	n, err := h.exportService.WriteCSV(r.Context(), w, auth.LeadScope(r.Context()))
	if err != nil {
		// headers are already out once rows have been written
		h.logger.Error("lead export failed", zap.Int("written", n), zap.Error(err))
		if n == 0 {
			respondWithError(w, http.StatusInternalServerError, "Failed to export leads")
		}
		return
	}
	h.logger.Info("leads exported", zap.Int("count", n))
}

// Snapshot godoc
// @Summary Store an export snapshot
// @Description Writes a CSV export of every lead to the configured storage
// @Tags Leads
// @Produce json
// @Success 201 {object} map[string]string
// @Failure 503 {object} domain.APIError "Storage not configured"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /leads/export/snapshot [post]
func (h *LeadHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	key, err := h.exportService.Snapshot(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "Failed to store export snapshot")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"key": key})
}
