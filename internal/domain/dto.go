package domain

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Auth DTOs
// ============================================================================

// LoginRequest carries the credentials submitted on the login screen
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

// LoginResponse returns an access token and where the client should land
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Identity    Identity  `json:"identity"`
}

// Role is one of the two flat identity classes
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Landing returns the screen a role starts on after login
func (r Role) Landing() string {
	if r == RoleAdmin {
		return "dashboard"
	}
	return "wizard"
}

// Identity is the authenticated caller
type Identity struct {
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Landing string `json:"landing"`
}

// IsAdmin reports whether the identity sees every lead
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// ============================================================================
// Field sanitisation DTOs
// ============================================================================

// SanitizeFieldRequest asks the server to sanitise one input value
type SanitizeFieldRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=name mobile number address email doorSize"`
	Value string `json:"value" validate:"max=10000"`
}

// SanitizeFieldResponse is the sanitised value and the field-level error, if any
type SanitizeFieldResponse struct {
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
}

// ============================================================================
// Wizard DTOs
// ============================================================================

// SectionErrors maps field names to messages. The key "general" carries
// section-wide errors.
type SectionErrors map[string]string

// WizardStateDTO is the client view of a wizard draft
type WizardStateDTO struct {
	ID           string                    `json:"id"`
	CurrentStep  int                       `json:"currentStep"`
	StepName     string                    `json:"stepName"`
	TotalSteps   int                       `json:"totalSteps"`
	Mode         string                    `json:"mode"`
	FormData     *LeadForm                 `json:"formData"`
	Errors       map[Section]SectionErrors `json:"errors"`
	IsSubmitting bool                      `json:"isSubmitting"`
	IsSubmitted  bool                      `json:"isSubmitted"`
	Receipt      *SubmissionReceipt        `json:"receipt,omitempty"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
}

// FieldDescriptor describes one input rendered by a step
type FieldDescriptor struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        string   `json:"kind"`
	Sanitizer   string   `json:"sanitizer,omitempty"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Value       string   `json:"value"`
	Error       string   `json:"error,omitempty"`
}

// FieldGroup is a titled set of fields. Most steps have one group; the
// door step has one per door type.
type FieldGroup struct {
	Key    string            `json:"key"`
	Title  string            `json:"title"`
	Fields []FieldDescriptor `json:"fields"`
}

// StepView describes a wizard step for rendering
type StepView struct {
	Index        int          `json:"index"`
	Name         string       `json:"name"`
	Title        string       `json:"title"`
	Subtitle     string       `json:"subtitle"`
	Section      Section      `json:"section,omitempty"`
	Groups       []FieldGroup `json:"groups"`
	GeneralError string       `json:"generalError,omitempty"`
	ReadOnly     bool         `json:"readOnly"`
}

// ReviewItem is one label/value row of the review summary
type ReviewItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ReviewGroup is a titled block of review rows
type ReviewGroup struct {
	Key   string       `json:"key"`
	Title string       `json:"title"`
	Items []ReviewItem `json:"items"`
	Photo *string      `json:"photo,omitempty"`
}

// ReviewSection is one card of the review summary
type ReviewSection struct {
	Section Section       `json:"section"`
	Title   string        `json:"title"`
	Items   []ReviewItem  `json:"items,omitempty"`
	Groups  []ReviewGroup `json:"groups,omitempty"`
}

// ReviewView is the read-only summary of a lead
type ReviewView struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Sections []ReviewSection `json:"sections"`
}

// SubmissionReceipt carries the identifiers of a persisted lead
type SubmissionReceipt struct {
	LeadID     uuid.UUID `json:"leadId"`
	LeadNumber string    `json:"leadNumber"`
}

// ============================================================================
// Dashboard DTOs
// ============================================================================

// LeadSummaryDTO is one card on the dashboard
type LeadSummaryDTO struct {
	ID                      uuid.UUID  `json:"id"`
	LeadNumber              string     `json:"leadNumber"`
	Status                  LeadStatus `json:"status"`
	CustomerName            string     `json:"customerName"`
	ProjectName             string     `json:"projectName"`
	EstimatedTotalDoorCount int        `json:"estimatedTotalDoorCount"`
	SubmittedBy             string     `json:"submittedBy"`
	CreatedAt               time.Time  `json:"createdAt"`
}

// LeadListResponse is the dashboard list. Degraded is set when the fetch
// failed and the list was replaced with an empty one.
type LeadListResponse struct {
	Leads    []LeadSummaryDTO `json:"leads"`
	Total    int              `json:"total"`
	Search   string           `json:"search,omitempty"`
	Degraded bool             `json:"degraded"`
}

// LeadDetailDTO is a stored lead opened in view mode
type LeadDetailDTO struct {
	LeadSummaryDTO
	FormData *LeadForm  `json:"formData"`
	Review   ReviewView `json:"review"`
}
