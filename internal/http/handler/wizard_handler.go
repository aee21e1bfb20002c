package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/wizard"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WizardHandler struct {
	wizardService *wizard.Service
	logger        *zap.Logger
}

func NewWizardHandler(wizardService *wizard.Service, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{
		wizardService: wizardService,
		logger:        logger,
	}
}

// draftCall runs op on the draft named by the {id} URL param and writes the
// resulting wizard state. Step validation failures return 422 and carry the
// field errors; the saved state is available from GET.
func (h *WizardHandler) draftCall(w http.ResponseWriter, r *http.Request, msg string,
	op func(owner, id string) (*wizard.Controller, error)) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	c, err := op(identity.Email, id)
	if err != nil {
		h.logger.Debug(msg, zap.String("draft_id", id), zap.Error(err))
		handleError(w, h.logger, err, msg)
		return
	}
	respondJSON(w, http.StatusOK, c.DTO())
}

// Start godoc
// @Summary Start a lead draft
// @Description Creates an empty wizard draft on the customer step
// @Tags Wizard
// @Produce json
// @Success 201 {object} domain.WizardStateDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /wizard [post]
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	c, err := h.wizardService.Start(r.Context(), identity.Email)
	if err != nil {
		handleError(w, h.logger, err, "Failed to start draft")
		return
	}

	w.Header().Set("Location", "/api/v1/wizard/"+c.State().ID)
	respondJSON(w, http.StatusCreated, c.DTO())
}

// Get godoc
// @Summary Get a lead draft
// @Tags Wizard
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.WizardStateDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /wizard/{id} [get]
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.draftCall(w, r, "Failed to get draft", func(owner, id string) (*wizard.Controller, error) {
		return h.wizardService.Get(r.Context(), owner, id)
	})
}

// Delete godoc
// @Summary Discard a lead draft
// @Tags Wizard
// @Param id path string true "Draft ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /wizard/{id} [delete]
func (h *WizardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	if err := h.wizardService.Delete(r.Context(), identity.Email, chi.URLParam(r, "id")); err != nil {
		handleError(w, h.logger, err, "Failed to delete draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSection godoc
// @Summary Update a draft section
// @Description Replaces the section of the current step with the sanitised body and clears its errors
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param section path string true "Section" Enums(customer, project, stakeholders, doorSpecifications, payment)
// @Success 200 {object} domain.WizardStateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Section is not on the current step"
// @Security BearerAuth
// @Router /wizard/{id}/sections/{section} [put]
func (h *WizardHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	section, ok := domain.ParseSection(chi.URLParam(r, "section"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, wizard.ErrUnknownSection.Error())
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSectionBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.draftCall(w, r, "Failed to update section", func(owner, id string) (*wizard.Controller, error) {
		return h.wizardService.UpdateSection(r.Context(), owner, id, section, raw)
	})
}

// Next godoc
// @Summary Advance to the next step
// @Description Validates the current step. On failure the wizard stays and the section's field errors are returned.
// @Tags Wizard
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.WizardStateDTO
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /wizard/{id}/next [post]
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.draftCall(w, r, "Failed to advance draft", func(owner, id string) (*wizard.Controller, error) {
		return h.wizardService.Next(r.Context(), owner, id)
	})
}

// Back godoc
// @Summary Go back one step
// @Tags Wizard
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.WizardStateDTO
// @Security BearerAuth
// @Router /wizard/{id}/back [post]
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.draftCall(w, r, "Failed to step back", func(owner, id string) (*wizard.Controller, error) {
		return h.wizardService.Back(r.Context(), owner, id)
	})
}

// Submit godoc
// @Summary Submit the lead
// @Description Persists the draft as a lead. Only allowed from the review step.
// @Tags Wizard
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.WizardStateDTO
// @Failure 409 {object} domain.APIError "Not on review, already submitted or submission in progress"
// @Failure 422 {object} domain.APIError
// @Failure 502 {object} domain.APIError "Failed to save lead"
// @Security BearerAuth
// @Router /wizard/{id}/submit [post]
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.draftCall(w, r, "Failed to submit lead", func(owner, id string) (*wizard.Controller, error) {
		return h.wizardService.Submit(r.Context(), owner, id)
	})
}

// Reset godoc
// @Summary Collect another lead
// @Description Clears the draft and returns to the first step
// @Tags Wizard
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.WizardStateDTO
// @Security BearerAuth
// @Router /wizard/{id}/reset [post]
func (h *WizardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.draftCall(w, r, "Failed to reset draft", func(owner, id string) (*wizard.Controller, error) {
		return h.wizardService.Reset(r.Context(), owner, id)
	})
}

// StepView godoc
// @Summary Describe a step
// @Description Field descriptors for a step, with current values and errors
// @Tags Wizard
// @Produce json
// @Param id path string true "Draft ID"
// @Param step path string true "Step index or name"
// @Success 200 {object} domain.StepView
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /wizard/{id}/steps/{step} [get]
func (h *WizardHandler) StepView(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	step, err := wizard.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		handleError(w, h.logger, err, "Failed to describe step")
		return
	}

	view, err := h.wizardService.StepView(r.Context(), identity.Email, chi.URLParam(r, "id"), step)
	if err != nil {
		handleError(w, h.logger, err, "Failed to describe step")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Review godoc
// @Summary Review summary of a draft
// @Tags Wizard
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.ReviewView
// @Security BearerAuth
// @Router /wizard/{id}/review [get]
func (h *WizardHandler) Review(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	review, err := h.wizardService.Review(r.Context(), identity.Email, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.logger, err, "Failed to build review")
		return
	}
	respondJSON(w, http.StatusOK, review)
}
