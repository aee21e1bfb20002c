package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/service"
	"github.com/doorline/leadcapture-api/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"draft not found", wizard.ErrDraftNotFound, http.StatusNotFound},
		{"lead not found", fmt.Errorf("lookup: %w", service.ErrLeadNotFound), http.StatusNotFound},
		{"in progress", wizard.ErrSubmissionInProgress, http.StatusConflict},
		{"already submitted", wizard.ErrAlreadySubmitted, http.StatusConflict},
		{"not on review", wizard.ErrNotOnReviewStep, http.StatusConflict},
		{"section not active", wizard.ErrSectionNotActive, http.StatusConflict},
		{"read only", wizard.ErrReadOnly, http.StatusConflict},
		{"unknown section", wizard.ErrUnknownSection, http.StatusBadRequest},
		{"invalid data", wizard.ErrInvalidSectionData, http.StatusBadRequest},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"storage", service.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, zap.NewNop(), tt.err, "Something failed")

			assert.Equal(t, tt.status, rec.Code)
			var body domain.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, getErrorType(tt.status), body.Type)
		})
	}
}

func TestHandleError_UnexpectedHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, zap.NewNop(), errors.New("pq: password authentication failed"), "Failed to get lead")

	assert.NotContains(t, rec.Body.String(), "pq:")
	assert.Contains(t, rec.Body.String(), "Failed to get lead")
}

func TestHandleError_SubmissionCarriesStage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := &service.SubmissionError{Stage: service.StageDoors, Err: errors.New("constraint")}
	handleError(rec, zap.NewNop(), fmt.Errorf("submit: %w", err), "Failed to submit lead")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, service.StageDoors, body.Stage)
	assert.Equal(t, "Failed to save lead. Please try again.", body.Detail)
	assert.NotContains(t, rec.Body.String(), "constraint")
}

func TestDecodeAndValidate(t *testing.T) {
	var req domain.LoginRequest

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	assert.False(t, decodeAndValidate(rec, r, &req))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com"}`))
	assert.False(t, decodeAndValidate(rec, r, &req))
	var body domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "password")

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com","password":"x"}`))
	assert.True(t, decodeAndValidate(rec, r, &req))
	assert.Equal(t, "a@example.com", req.Email)
}
