package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DocumentType identifies what kind of document an application needs.
type DocumentType string

// Possible document types
const (
	DocumentTypeSOP DocumentType = "sop"
	DocumentTypeLOR DocumentType = "lor"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	return t == DocumentTypeSOP || t == DocumentTypeLOR
}

// Title returns the display title used for new documents of this type.
func (t DocumentType) Title() string {
	switch t {
	case DocumentTypeSOP:
		return "Statement of Purpose"
	case DocumentTypeLOR:
		return "Letter of Recommendation"
	default:
		return string(t)
	}
}

// DocumentStatus is the editing state of a document.
type DocumentStatus string

// Possible document status values
const (
	DocumentStatusNotStarted DocumentStatus = "not_started"
	DocumentStatusDraft      DocumentStatus = "draft"
	DocumentStatusInReview   DocumentStatus = "in_review"
	DocumentStatusComplete   DocumentStatus = "complete"
)

// Valid reports whether s is a known document status.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusNotStarted, DocumentStatusDraft, DocumentStatusInReview, DocumentStatusComplete:
		return true
	default:
		return false
	}
}

// Common validation errors for ApplicationDocument
var (
	ErrEmptyDocumentID            = errors.New("document ID cannot be empty")
	ErrEmptyDocumentApplicationID = errors.New("document application ID cannot be empty")
	ErrEmptyDocumentUserID        = errors.New("document user ID cannot be empty")
	ErrNegativeSuggestionsCount   = errors.New("AI suggestions count cannot be negative")
)

// ApplicationDocument is one document (statement of purpose, recommendation
// letter) belonging to an application. UserID is denormalized from the owning
// application. Progress is derived from Status and never set independently.
type ApplicationDocument struct {
	ID                 uuid.UUID      `json:"id"`
	ApplicationID      uuid.UUID      `json:"application_id"`
	UserID             uuid.UUID      `json:"user_id"`
	Type               DocumentType   `json:"type"`
	Title              string         `json:"title"`
	Status             DocumentStatus `json:"status"`
	Progress           int            `json:"progress"`
	Content            string         `json:"content"`
	RecommenderName    string         `json:"recommender_name,omitempty"`
	RecommenderEmail   string         `json:"recommender_email,omitempty"`
	LastEdited         time.Time      `json:"last_edited"`
	AISuggestionsCount int            `json:"ai_suggestions_count"`
}

// NewApplicationDocument creates an empty, not yet started document of the given type.
func NewApplicationDocument(
	applicationID, userID uuid.UUID,
	docType DocumentType,
) (*ApplicationDocument, error) {
	doc := &ApplicationDocument{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		UserID:        userID,
		Type:          docType,
		Title:         docType.Title(),
		Status:        DocumentStatusNotStarted,
		Progress:      0,
		LastEdited:    time.Now().UTC(),
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the ApplicationDocument has valid data.
func (d *ApplicationDocument) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDocumentID
	}

	if d.ApplicationID == uuid.Nil {
		return ErrEmptyDocumentApplicationID
	}

	if d.UserID == uuid.Nil {
		return ErrEmptyDocumentUserID
	}

	if !d.Type.Valid() {
		return ErrInvalidDocumentType
	}

	if !d.Status.Valid() {
		return ErrInvalidDocumentStatus
	}

	if d.Progress < 0 || d.Progress > 100 {
		return ErrInvalidProgress
	}

	if d.AISuggestionsCount < 0 {
		return ErrNegativeSuggestionsCount
	}

	return nil
}

// IsRecommendationLetter reports whether the document carries recommender details.
func (d *ApplicationDocument) IsRecommendationLetter() bool {
	return d.Type == DocumentTypeLOR
}

// Recommender holds the contact details attached to a recommendation letter.
type Recommender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
