package handler

import (
	"net/http"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/validation"
	"github.com/doorline/leadcapture-api/internal/wizard"
)

// OptionsHandler serves the static reference data the wizard renders
type OptionsHandler struct{}

func NewOptionsHandler() *OptionsHandler {
	return &OptionsHandler{}
}

// StepInfo describes one wizard step
type StepInfo struct {
	Index    int            `json:"index"`
	Name     string         `json:"name"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Section  domain.Section `json:"section,omitempty"`
}

// Options godoc
// @Summary Get option lists
// @Description Building types, construction stages, door types with materials, payment methods, lead sources and priority levels
// @Tags Options
// @Produce json
// @Success 200 {object} domain.Options
// @Router /options [get]
func (h *OptionsHandler) Options(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.AllOptions())
}

// Steps godoc
// @Summary List wizard steps
// @Tags Options
// @Produce json
// @Success 200 {array} StepInfo
// @Router /steps [get]
func (h *OptionsHandler) Steps(w http.ResponseWriter, r *http.Request) {
	defs := wizard.Steps()
	out := make([]StepInfo, len(defs))
	for i, d := range defs {
		out[i] = StepInfo{Index: int(d.Step), Name: d.Name, Title: d.Title, Subtitle: d.Subtitle, Section: d.Section}
	}
	respondJSON(w, http.StatusOK, out)
}

// Sanitize godoc
// @Summary Sanitize a field value
// @Description Applies the input-time sanitiser of a field kind and reports its format error, if any
// @Tags Options
// @Accept json
// @Produce json
// @Param request body domain.SanitizeFieldRequest true "Field value"
// @Success 200 {object} domain.SanitizeFieldResponse
// @Failure 400 {object} domain.APIError
// @Router /fields/sanitize [post]
func (h *OptionsHandler) Sanitize(w http.ResponseWriter, r *http.Request) {
	var req domain.SanitizeFieldRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	kind := validation.FieldKind(req.Kind)
	value, err := validation.Sanitize(kind, req.Value)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, domain.SanitizeFieldResponse{
		Value: value,
		Error: validation.ValidateKind(kind, value),
	})
}
