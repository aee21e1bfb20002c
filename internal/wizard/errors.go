package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/doorline/leadcapture-api/internal/domain"
)

var (
	ErrDraftNotFound        = errors.New("draft not found")
	ErrNotOnReviewStep      = errors.New("submit is only allowed from the review step")
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrAlreadySubmitted     = errors.New("lead already submitted")
	ErrReadOnly             = errors.New("wizard is read-only")
	ErrSectionNotActive     = errors.New("section is not on the current step")
	ErrUnknownSection       = errors.New("unknown section")
	ErrUnknownStep          = errors.New("unknown step")
	ErrInvalidSectionData   = errors.New("invalid section data")
	ErrStepValidation       = errors.New("step validation failed")
	ErrCorruptDraft         = errors.New("stored draft is corrupt")
)

// StepValidationError carries the field errors recorded for a section
type StepValidationError struct {
	Section domain.Section
	Errors  domain.SectionErrors
}

func (e *StepValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fmt.Sprintf("%s: %s (%s)", ErrStepValidation, e.Section, strings.Join(fields, ", "))
}

func (e *StepValidationError) Unwrap() error {
	return ErrStepValidation
}
