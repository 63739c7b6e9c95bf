package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus represents where an application is in its lifecycle.
type ApplicationStatus string

// Possible application status values
const (
	ApplicationStatusNotStarted ApplicationStatus = "not_started"
	ApplicationStatusDraft      ApplicationStatus = "draft"
	ApplicationStatusInProgress ApplicationStatus = "in_progress"
	ApplicationStatusSubmitted  ApplicationStatus = "submitted"
	ApplicationStatusAccepted   ApplicationStatus = "accepted"
	ApplicationStatusRejected   ApplicationStatus = "rejected"
	ApplicationStatusDeleted    ApplicationStatus = "deleted"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusNotStarted, ApplicationStatusDraft, ApplicationStatusInProgress,
		ApplicationStatusSubmitted, ApplicationStatusAccepted, ApplicationStatusRejected,
		ApplicationStatusDeleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether s is absorbing. Terminal statuses are never
// overwritten by automatic recomputation from document statuses.
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusAccepted,
		ApplicationStatusRejected, ApplicationStatusDeleted:
		return true
	default:
		return false
	}
}

// Priority is the user's own ranking of an application.
type Priority string

// Possible priority values
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Common validation errors for Application
var (
	ErrEmptyApplicationID     = errors.New("application ID cannot be empty")
	ErrEmptyApplicationUserID = errors.New("application user ID cannot be empty")
	ErrEmptyProgramReference  = errors.New("university and program references cannot be empty")
	ErrEmptyDeadline          = errors.New("application deadline cannot be empty")
)

// Application is a user's application to one graduate program. University and
// program are opaque references into the external catalog.
type Application struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	UniversityID   string            `json:"university_id"`
	ProgramID      string            `json:"program_id"`
	Status         ApplicationStatus `json:"status"`
	Priority       Priority          `json:"priority"`
	Deadline       time.Time         `json:"deadline"`
	SubmissionDate *time.Time        `json:"submission_date,omitempty"`
	Notes          string            `json:"notes"`
	CreatedAt      time.Time         `json:"created_at"`
	LastUpdated    time.Time         `json:"last_updated"`
}

// NewApplication creates a new Application in the not_started status.
// Returns an error if validation fails.
func NewApplication(
	userID uuid.UUID,
	universityID, programID string,
	deadline time.Time,
	priority Priority,
	notes string,
) (*Application, error) {
	now := time.Now().UTC()
	app := &Application{
		ID:           uuid.New(),
		UserID:       userID,
		UniversityID: strings.TrimSpace(universityID),
		ProgramID:    strings.TrimSpace(programID),
		Status:       ApplicationStatusNotStarted,
		Priority:     priority,
		Deadline:     deadline.UTC(),
		Notes:        notes,
		CreatedAt:    now,
		LastUpdated:  now,
	}

	if err := app.Validate(); err != nil {
		return nil, err
	}

	return app, nil
}

// Validate checks if the Application has valid data.
func (a *Application) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyApplicationID
	}

	if a.UserID == uuid.Nil {
		return ErrEmptyApplicationUserID
	}

	if a.UniversityID == "" || a.ProgramID == "" {
		return ErrEmptyProgramReference
	}

	if a.Deadline.IsZero() {
		return ErrEmptyDeadline
	}

	if !a.Status.Valid() {
		return ErrInvalidApplicationStatus
	}

	if !a.Priority.Valid() {
		return ErrInvalidPriority
	}

	return nil
}

// ApplicationSummary is an application together with its document completion counts.
type ApplicationSummary struct {
	Application
	DocumentsComplete int `json:"documents_complete"`
	TotalDocuments    int `json:"total_documents"`
	Progress          int `json:"progress"`
}
