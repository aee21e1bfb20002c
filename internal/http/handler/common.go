package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/doorline/leadcapture-api/internal/auth"
	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/service"
	"github.com/doorline/leadcapture-api/internal/wizard"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// maxSectionBytes caps a section update; door photos arrive inline
const maxSectionBytes = 16 << 20

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// decodeAndValidate decodes the JSON body into dst and runs struct validation
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fieldName := toJSONFieldName(fe.Field())
			errs[fieldName] = formatValidationError(fe)
		}
	}

	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: errs,
	})
}

// respondStepValidation reports the field errors that kept the wizard on its step
func respondStepValidation(w http.ResponseWriter, err *wizard.StepValidationError) {
	respondJSON(w, http.StatusUnprocessableEntity, domain.APIError{
		Type:   domain.ErrorTypeStepValidation,
		Title:  "Step Validation Failed",
		Status: http.StatusUnprocessableEntity,
		Detail: string(err.Section),
		Errors: err.Errors,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// handleError maps service and wizard errors to responses. Unexpected errors
// are logged and reported as 500 with msg.
func handleError(w http.ResponseWriter, logger *zap.Logger, err error, msg string) {
	var stepErr *wizard.StepValidationError
	if errors.As(err, &stepErr) {
		respondStepValidation(w, stepErr)
		return
	}

	var subErr *service.SubmissionError
	if errors.As(err, &subErr) {
		respondJSON(w, http.StatusBadGateway, domain.APIError{
			Type:   domain.ErrorTypeSubmission,
			Title:  "Submission Failed",
			Status: http.StatusBadGateway,
			Detail: "Failed to save lead. Please try again.",
			Stage:  subErr.Stage,
		})
		return
	}

	switch {
	case errors.Is(err, wizard.ErrDraftNotFound),
		errors.Is(err, service.ErrLeadNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, wizard.ErrSubmissionInProgress),
		errors.Is(err, wizard.ErrAlreadySubmitted),
		errors.Is(err, wizard.ErrNotOnReviewStep),
		errors.Is(err, wizard.ErrSectionNotActive),
		errors.Is(err, wizard.ErrReadOnly):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, wizard.ErrUnknownSection),
		errors.Is(err, wizard.ErrUnknownStep),
		errors.Is(err, wizard.ErrInvalidSectionData),
		errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error(msg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, msg)
	}
}

// identityFrom returns the caller or writes a 401
func identityFrom(w http.ResponseWriter, r *http.Request) (*domain.Identity, bool) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return identity, true
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusUnprocessableEntity:
		return domain.ErrorTypeStepValidation
	case http.StatusTooManyRequests:
		return domain.ErrorTypeTooManyRequests
	case http.StatusBadGateway:
		return domain.ErrorTypeSubmission
	default:
		return domain.ErrorTypeInternal
	}
}
