package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
)

// CreateApplicationRequest defines the payload for creating an application.
type CreateApplicationRequest struct {
	UniversityID string    `json:"university_id" validate:"required,max=200"`
	ProgramID    string    `json:"program_id"    validate:"required,max=200"`
	Deadline     time.Time `json:"deadline"      validate:"required"`
	Priority     string    `json:"priority"      validate:"omitempty,oneof=high medium low"`
	Notes        string    `json:"notes"         validate:"max=5000"`

	// Documents lists the document types to create. Defaults to one SOP and two LORs.
	Documents []string `json:"documents" validate:"omitempty,max=10,dive,oneof=sop lor"`
}

// UpdateApplicationStatusRequest defines the payload for an explicit status change.
type UpdateApplicationStatusRequest struct {
	Status         string     `json:"status"          validate:"required,oneof=not_started draft in_progress submitted accepted rejected deleted"`
	Notes          *string    `json:"notes"           validate:"omitempty,max=5000"`
	SubmissionDate *time.Time `json:"submission_date"`
}

// CreateDocumentRequest defines the payload for adding a document to an application.
type CreateDocumentRequest struct {
	Type string `json:"type" validate:"required,oneof=sop lor"`
}

// SetDocumentStatusRequest defines the payload for moving a document to a new status.
type SetDocumentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=not_started draft in_review complete"`
}

// SetDocumentContentRequest defines the payload for replacing a document body.
type SetDocumentContentRequest struct {
	Content string `json:"content" validate:"max=200000"`
}

// SetRecommenderRequest defines the payload for naming a letter's recommender.
type SetRecommenderRequest struct {
	Name  string `json:"name"  validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=320"`
}

// GenerateDocumentRequest defines the optional payload for drafting a document.
type GenerateDocumentRequest struct {
	Instructions string `json:"instructions" validate:"max=5000"`
}

// DebitRequest defines the payload for spending credits.
type DebitRequest struct {
	Type        string `json:"type"        validate:"required,oneof=lor_request lor_update sop_request sop_update ai_usage"`
	Amount      int    `json:"amount"`
	Description string `json:"description" validate:"max=500"`
}

// ProvisionUserRequest defines the payload for the internal user provisioning endpoint.
type ProvisionUserRequest struct {
	ExternalID string `json:"external_id" validate:"required,max=255"`
	Name       string `json:"name"        validate:"max=200"`
	Email      string `json:"email"       validate:"required,email,max=320"`
}

// ApplicationResponse is an application together with its documents.
type ApplicationResponse struct {
	*domain.Application
	Documents []*domain.ApplicationDocument `json:"documents"`
}

// ApplicationListResponse wraps the caller's applications.
type ApplicationListResponse struct {
	Applications []domain.ApplicationSummary `json:"applications"`
}

// ApplicationStatusResponse is returned after a status change.
type ApplicationStatusResponse struct {
	ID     uuid.UUID                `json:"id"`
	Status domain.ApplicationStatus `json:"status"`
}

// GenerateDocumentResponse is returned after a document has been drafted.
type GenerateDocumentResponse struct {
	Document *domain.ApplicationDocument `json:"document"`
	Credits  domain.CreditSummary        `json:"credits"`
}

// CreditUsageResponse wraps the usage breakdown.
type CreditUsageResponse struct {
	Usage []domain.CreditUsageStat `json:"usage"`
}

// ActivityListResponse wraps recent activity records.
type ActivityListResponse struct {
	Activities []*domain.Activity `json:"activities"`
}

// ProvisionUserResponse defines the response of the provisioning endpoint.
type ProvisionUserResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Created bool      `json:"created"`

	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}
