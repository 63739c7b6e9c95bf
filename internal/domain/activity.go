package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityType identifies the kind of event an activity record describes.
type ActivityType string

// Possible activity types
const (
	ActivityDocumentCreated       ActivityType = "document_created"
	ActivityDocumentStatusUpdate  ActivityType = "document_status_update"
	ActivityDocumentEdit          ActivityType = "document_edit"
	ActivityDocumentContentUpdate ActivityType = "document_content_update"
	ActivityLORUpdate             ActivityType = "lor_update"
	ActivityAISuggestion          ActivityType = "ai_suggestion"
	ActivityApplicationUpdate     ActivityType = "application_update"
	ActivityAIUsage               ActivityType = "ai_usage"
	ActivityCreditsReset          ActivityType = "credits_reset"
)

// ActivityDetails is the event-specific payload of an activity record.
// Each ActivityType has exactly one concrete details type.
type ActivityDetails interface {
	ActivityType() ActivityType
}

// DocumentCreated is recorded when a document is added to an application.
type DocumentCreated struct {
	DocumentID    uuid.UUID    `json:"documentId"`
	ApplicationID uuid.UUID    `json:"applicationId"`
	DocumentType  DocumentType `json:"documentType"`
}

// ActivityType implements ActivityDetails.
func (DocumentCreated) ActivityType() ActivityType { return ActivityDocumentCreated }

// DocumentStatusChanged is recorded when a document status actually changes.
type DocumentStatusChanged struct {
	DocumentID uuid.UUID      `json:"documentId"`
	OldStatus  DocumentStatus `json:"oldStatus"`
	NewStatus  DocumentStatus `json:"newStatus"`
}

// ActivityType implements ActivityDetails.
func (DocumentStatusChanged) ActivityType() ActivityType { return ActivityDocumentStatusUpdate }

// DocumentProgressChanged is recorded when a document's progress actually changes.
type DocumentProgressChanged struct {
	DocumentID  uuid.UUID `json:"documentId"`
	OldProgress int       `json:"oldProgress"`
	NewProgress int       `json:"newProgress"`
}

// ActivityType implements ActivityDetails.
func (DocumentProgressChanged) ActivityType() ActivityType { return ActivityDocumentEdit }

// DocumentContentUpdated is recorded when a document's body is replaced.
type DocumentContentUpdated struct {
	DocumentID    uuid.UUID `json:"documentId"`
	ContentLength int       `json:"contentLength"`
}

// ActivityType implements ActivityDetails.
func (DocumentContentUpdated) ActivityType() ActivityType { return ActivityDocumentContentUpdate }

// RecommenderUpdated is recorded when the recommender of a letter changes.
type RecommenderUpdated struct {
	DocumentID uuid.UUID `json:"documentId"`
}

// ActivityType implements ActivityDetails.
func (RecommenderUpdated) ActivityType() ActivityType { return ActivityLORUpdate }

// AISuggestionRecorded is recorded when a generated draft is accepted into a document.
type AISuggestionRecorded struct {
	DocumentID       uuid.UUID `json:"documentId"`
	SuggestionsCount int       `json:"suggestionsCount"`
}

// ActivityType implements ActivityDetails.
func (AISuggestionRecorded) ActivityType() ActivityType { return ActivityAISuggestion }

// ApplicationUpdated is recorded on any application status change. OldStatus
// and NewStatus are empty for automatic recomputation entries written before
// they were tracked.
type ApplicationUpdated struct {
	ApplicationID uuid.UUID         `json:"applicationId"`
	OldStatus     ApplicationStatus `json:"oldStatus,omitempty"`
	NewStatus     ApplicationStatus `json:"newStatus,omitempty"`
}

// ActivityType implements ActivityDetails.
func (ApplicationUpdated) ActivityType() ActivityType { return ActivityApplicationUpdate }

// CreditsUsed is recorded on every successful debit.
type CreditsUsed struct {
	CreditsUsed      int `json:"creditsUsed"`
	RemainingCredits int `json:"remainingCredits"`
}

// ActivityType implements ActivityDetails.
func (CreditsUsed) ActivityType() ActivityType { return ActivityAIUsage }

// CreditsReset is recorded when a credit balance is replenished.
type CreditsReset struct {
	TotalCredits int       `json:"totalCredits"`
	ResetDate    time.Time `json:"resetDate"`
}

// ActivityType implements ActivityDetails.
func (CreditsReset) ActivityType() ActivityType { return ActivityCreditsReset }

// Activity is one immutable audit entry.
type Activity struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Type        ActivityType    `json:"type"`
	Description string          `json:"description"`
	Details     ActivityDetails `json:"metadata"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ErrEmptyActivityUserID is returned when an activity has no owner.
var ErrEmptyActivityUserID = errors.New("activity user ID cannot be empty")

// NewActivity creates an activity whose type is taken from its details.
func NewActivity(userID uuid.UUID, description string, details ActivityDetails) (*Activity, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyActivityUserID
	}
	if details == nil {
		return nil, NewValidationError("details", "activity details are required", ErrValidation)
	}

	return &Activity{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        details.ActivityType(),
		Description: description,
		Details:     details,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// DecodeActivityDetails rebuilds the typed details for a stored activity.
func DecodeActivityDetails(activityType ActivityType, raw []byte) (ActivityDetails, error) {
	var details ActivityDetails
	switch activityType {
	case ActivityDocumentCreated:
		details = &DocumentCreated{}
	case ActivityDocumentStatusUpdate:
		details = &DocumentStatusChanged{}
	case ActivityDocumentEdit:
		details = &DocumentProgressChanged{}
	case ActivityDocumentContentUpdate:
		details = &DocumentContentUpdated{}
	case ActivityLORUpdate:
		details = &RecommenderUpdated{}
	case ActivityAISuggestion:
		details = &AISuggestionRecorded{}
	case ActivityApplicationUpdate:
		details = &ApplicationUpdated{}
	case ActivityAIUsage:
		details = &CreditsUsed{}
	case ActivityCreditsReset:
		details = &CreditsReset{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivityType, activityType)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, details); err != nil {
			return nil, fmt.Errorf("failed to decode %s metadata: %w", activityType, err)
		}
	}

	return deref(details), nil
}

func deref(details ActivityDetails) ActivityDetails {
	switch d := details.(type) {
	case *DocumentCreated:
		return *d
	case *DocumentStatusChanged:
		return *d
	case *DocumentProgressChanged:
		return *d
	case *DocumentContentUpdated:
		return *d
	case *RecommenderUpdated:
		return *d
	case *AISuggestionRecorded:
		return *d
	case *ApplicationUpdated:
		return *d
	case *CreditsUsed:
		return *d
	case *CreditsReset:
		return *d
	default:
		return details
	}
}

// ActivityStats counts a user's activity over calendar windows.
type ActivityStats struct {
	Today     int `json:"today"`
	ThisWeek  int `json:"this_week"`
	ThisMonth int `json:"this_month"`
}

// Dashboard aggregates a user's applications, documents, credits and recent activity.
type Dashboard struct {
	Applications   ApplicationStats `json:"applications"`
	Documents      DocumentStats    `json:"documents"`
	Credits        CreditSummary    `json:"credits"`
	RecentActivity []Activity       `json:"recent_activity"`
}

// ApplicationStats summarizes a user's applications.
type ApplicationStats struct {
	Total        int        `json:"total"`
	Submitted    int        `json:"submitted"`
	InProgress   int        `json:"in_progress"`
	NextDeadline *time.Time `json:"next_deadline,omitempty"`
}

// DocumentStats summarizes a user's documents.
type DocumentStats struct {
	Total           int `json:"total"`
	Completed       int `json:"completed"`
	AverageProgress int `json:"average_progress"`
}
