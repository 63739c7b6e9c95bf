package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewApplicationDocument(t *testing.T) {
	t.Parallel()

	appID := uuid.New()
	userID := uuid.New()

	doc, err := NewApplicationDocument(appID, userID, DocumentTypeLOR)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if doc.Status != DocumentStatusNotStarted || doc.Progress != 0 {
		t.Errorf("Expected not_started at 0, got %s at %d", doc.Status, doc.Progress)
	}

	if doc.Title != "Letter of Recommendation" {
		t.Errorf("Unexpected title %q", doc.Title)
	}

	if !doc.IsRecommendationLetter() {
		t.Error("Expected lor document to be a recommendation letter")
	}

	_, err = NewApplicationDocument(appID, userID, DocumentType("cv"))
	if err != ErrInvalidDocumentType {
		t.Errorf("Expected error %v, got %v", ErrInvalidDocumentType, err)
	}

	_, err = NewApplicationDocument(uuid.Nil, userID, DocumentTypeSOP)
	if err != ErrEmptyDocumentApplicationID {
		t.Errorf("Expected error %v, got %v", ErrEmptyDocumentApplicationID, err)
	}
}

func TestApplicationDocumentValidate(t *testing.T) {
	t.Parallel()

	base := func() *ApplicationDocument {
		d, _ := NewApplicationDocument(uuid.New(), uuid.New(), DocumentTypeSOP)
		return d
	}

	d := base()
	d.Progress = 101
	if err := d.Validate(); err != ErrInvalidProgress {
		t.Errorf("Expected error %v, got %v", ErrInvalidProgress, err)
	}

	d = base()
	d.Status = DocumentStatus("published")
	if err := d.Validate(); err != ErrInvalidDocumentStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidDocumentStatus, err)
	}

	d = base()
	d.AISuggestionsCount = -1
	if err := d.Validate(); err != ErrNegativeSuggestionsCount {
		t.Errorf("Expected error %v, got %v", ErrNegativeSuggestionsCount, err)
	}

	if DocumentTypeSOP.Title() != "Statement of Purpose" {
		t.Errorf("Unexpected sop title %q", DocumentTypeSOP.Title())
	}
}
