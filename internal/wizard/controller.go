package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/doorline/leadcapture-api/internal/domain"
)

// Mode is the wizard mode. Drafts are edited; stored leads are viewed.
type Mode string

const (
	ModeEdit Mode = "edit"
	ModeView Mode = "view"
)

// submitStaleAfter releases a submitting flag left behind by a crashed request
const submitStaleAfter = 2 * time.Minute

// Submitter persists a completed form
type Submitter interface {
	Submit(ctx context.Context, form *domain.LeadForm, submittedBy string) (*domain.SubmissionReceipt, error)
}

// State is the persisted wizard state of one draft
type State struct {
	ID           string                                  `json:"id"`
	Owner        string                                  `json:"owner"`
	Mode         Mode                                    `json:"mode"`
	CurrentStep  Step                                    `json:"currentStep"`
	FormData     *domain.LeadForm                        `json:"formData"`
	Errors       map[domain.Section]domain.SectionErrors `json:"errors"`
	IsSubmitting bool                                    `json:"isSubmitting"`
	SubmitStart  *time.Time                              `json:"submitStart,omitempty"`
	IsSubmitted  bool                                    `json:"isSubmitted"`
	Receipt      *domain.SubmissionReceipt               `json:"receipt,omitempty"`
	CreatedAt    time.Time                               `json:"createdAt"`
	UpdatedAt    time.Time                               `json:"updatedAt"`
}

// Controller runs the step state machine over a State
type Controller struct {
	state *State
	now   func() time.Time
}

// NewController starts an empty draft on the customer step
func NewController(id, owner string, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	ts := now().UTC()
	return &Controller{
		state: &State{
			ID:          id,
			Owner:       owner,
			Mode:        ModeEdit,
			CurrentStep: StepCustomer,
			FormData:    domain.NewLeadForm(),
			Errors:      map[domain.Section]domain.SectionErrors{},
			CreatedAt:   ts,
			UpdatedAt:   ts,
		},
		now: now,
	}
}

// Resume wraps a loaded state. It fails with ErrCorruptDraft when the
// stored step is out of range.
func Resume(state *State, now func() time.Time) (*Controller, error) {
	if !state.CurrentStep.Valid() {
		return nil, fmt.Errorf("%w: step %d", ErrCorruptDraft, int(state.CurrentStep))
	}
	if now == nil {
		now = time.Now
	}
	if state.FormData == nil {
		state.FormData = domain.NewLeadForm()
	}
	state.FormData.EnsureDoorKeys()
	if state.Errors == nil {
		state.Errors = map[domain.Section]domain.SectionErrors{}
	}
	return &Controller{state: state, now: now}, nil
}

// NewViewController opens a stored lead read-only, positioned on review
func NewViewController(form *domain.LeadForm) *Controller {
	if form == nil {
		form = domain.NewLeadForm()
	}
	return &Controller{
		state: &State{
			Mode:        ModeView,
			CurrentStep: StepReview,
			FormData:    form,
			Errors:      map[domain.Section]domain.SectionErrors{},
			IsSubmitted: true,
		},
		now: time.Now,
	}
}

// State returns the underlying state
func (c *Controller) State() *State {
	return c.state
}

// ReadOnly reports whether the wizard is in view mode
func (c *Controller) ReadOnly() bool {
	return c.state.Mode == ModeView
}

func (c *Controller) touch() {
	c.state.UpdatedAt = c.now().UTC()
}

// guardEdit rejects edits in view mode, while submitting and after submission
func (c *Controller) guardEdit() error {
	if c.ReadOnly() {
		return ErrReadOnly
	}
	if c.submitting() {
		return ErrSubmissionInProgress
	}
	if c.state.IsSubmitted {
		return ErrAlreadySubmitted
	}
	return nil
}

func (c *Controller) submitting() bool {
	if !c.state.IsSubmitting {
		return false
	}
	if c.state.SubmitStart != nil && c.now().Sub(*c.state.SubmitStart) > submitStaleAfter {
		return false
	}
	return true
}

// setSectionErrors records errs for section only. Other sections keep
// their entries.
func (c *Controller) setSectionErrors(section domain.Section, errs domain.SectionErrors) {
	if len(errs) == 0 {
		delete(c.state.Errors, section)
		return
	}
	c.state.Errors[section] = errs
}

// Next validates the current step and advances when it has no errors.
// On failure the wizard stays and a *StepValidationError is returned.
func (c *Controller) Next() error {
	if err := c.guardEdit(); err != nil {
		return err
	}

	def := c.state.CurrentStep.Definition()
	if def.Section == "" {
		// review has no validator and is the last step
		return nil
	}

	errs, err := ValidateSection(def.Section, c.state.FormData)
	if err != nil {
		return err
	}
	c.setSectionErrors(def.Section, errs)
	c.touch()

	if len(errs) > 0 {
		return &StepValidationError{Section: def.Section, Errors: errs}
	}
	if c.state.CurrentStep < StepReview {
		c.state.CurrentStep++
	}
	return nil
}

// Back steps back without validation
func (c *Controller) Back() error {
	if err := c.guardEdit(); err != nil {
		return err
	}
	if c.state.CurrentStep > StepCustomer {
		c.state.CurrentStep--
	}
	c.touch()
	return nil
}

// UpdateSection replaces section with the sanitised value and clears the
// section's errors. Only the section of the current step can be updated.
func (c *Controller) UpdateSection(section domain.Section, value any) error {
	if err := c.guardEdit(); err != nil {
		return err
	}
	if _, ok := domain.ParseSection(string(section)); !ok {
		return ErrUnknownSection
	}
	if c.state.CurrentStep.Definition().Section != section {
		return ErrSectionNotActive
	}
	if err := applySection(c.state.FormData, section, value); err != nil {
		return err
	}
	delete(c.state.Errors, section)
	c.touch()
	return nil
}

// BeginSubmit checks that the draft may be submitted and marks it submitting.
// The payment validator runs again as a final gate.
func (c *Controller) BeginSubmit() error {
	if c.ReadOnly() {
		return ErrReadOnly
	}
	if c.state.IsSubmitted {
		return ErrAlreadySubmitted
	}
	if c.submitting() {
		return ErrSubmissionInProgress
	}
	if c.state.CurrentStep != StepReview {
		return ErrNotOnReviewStep
	}

	errs := ValidatePayment(c.state.FormData.Payment)
	c.setSectionErrors(domain.SectionPayment, errs)
	if len(errs) > 0 {
		c.touch()
		return &StepValidationError{Section: domain.SectionPayment, Errors: errs}
	}

	start := c.now().UTC()
	c.state.IsSubmitting = true
	c.state.SubmitStart = &start
	c.touch()
	return nil
}

// CompleteSubmit records the outcome of a submission started by BeginSubmit.
// A failed submission leaves the wizard on review so it can be retried.
func (c *Controller) CompleteSubmit(receipt *domain.SubmissionReceipt, err error) {
	c.state.IsSubmitting = false
	c.state.SubmitStart = nil
	if err == nil && receipt != nil {
		c.state.IsSubmitted = true
		c.state.Receipt = receipt
	}
	c.touch()
}

// Submit runs BeginSubmit, the submitter and CompleteSubmit in one call
func (c *Controller) Submit(ctx context.Context, submitter Submitter) (*domain.SubmissionReceipt, error) {
	if err := c.BeginSubmit(); err != nil {
		return nil, err
	}
	receipt, err := submitter.Submit(ctx, c.state.FormData.Clone(), c.state.Owner)
	c.CompleteSubmit(receipt, err)
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Reset starts a fresh form on the first step, keeping the draft identity
func (c *Controller) Reset() error {
	if c.ReadOnly() {
		return ErrReadOnly
	}
	if c.submitting() {
		return ErrSubmissionInProgress
	}
	c.state.CurrentStep = StepCustomer
	c.state.FormData = domain.NewLeadForm()
	c.state.Errors = map[domain.Section]domain.SectionErrors{}
	c.state.IsSubmitting = false
	c.state.SubmitStart = nil
	c.state.IsSubmitted = false
	c.state.Receipt = nil
	c.touch()
	return nil
}

// DTO returns the client view of the state
func (c *Controller) DTO() domain.WizardStateDTO {
	s := c.state
	errs := make(map[domain.Section]domain.SectionErrors, len(s.Errors))
	for k, v := range s.Errors {
		errs[k] = v
	}
	return domain.WizardStateDTO{
		ID:           s.ID,
		CurrentStep:  int(s.CurrentStep),
		StepName:     s.CurrentStep.String(),
		TotalSteps:   StepCount,
		Mode:         string(s.Mode),
		FormData:     s.FormData,
		Errors:       errs,
		IsSubmitting: c.submitting(),
		IsSubmitted:  s.IsSubmitted,
		Receipt:      s.Receipt,
		UpdatedAt:    s.UpdatedAt,
	}
}
