package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrLeadNotFound is returned when a lead does not exist or is outside the caller's scope
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidCredentials is returned when a login does not match a configured account
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden is returned when the caller's role does not allow the action
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageUnavailable is returned when export snapshots are requested without storage
	ErrStorageUnavailable = errors.New("storage not configured")
)

// Submission stages in insert order. The stage names match the tables.
const (
	StageLeadNumber   = "lead_number"
	StageLead         = "leads"
	StageCustomer     = "customer_contact_details"
	StageProject      = "project_information"
	StageStakeholders = "stakeholder_details"
	StageDoors        = "door_specifications"
	StagePayment      = "payment_details"
)

// SubmissionError reports the stage at which a lead submission failed.
// Nothing from the failed submission is persisted.
type SubmissionError struct {
	Stage string
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("lead submission failed at %s: %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
