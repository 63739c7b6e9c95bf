package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/gradaid/gradaid-api/internal/domain"
)

// Generator drafts document content with an external language model.
type Generator interface {
	// Generate returns draft text for the document described by req.
	// Errors wrap one of the sentinel errors in errors.go.
	Generate(ctx context.Context, req Request) (string, error)
}

// Request describes the document to draft.
type Request struct {
	DocumentType domain.DocumentType
	UniversityID string
	ProgramID    string

	// Recommender is required for recommendation letters and ignored otherwise.
	Recommender *domain.Recommender

	// CurrentContent is the existing draft, if any, to revise rather than replace.
	CurrentContent string

	// Instructions carries free-form applicant details supplied by the caller.
	Instructions string
}

// Validate checks that the request carries what the document type needs.
func (r Request) Validate() error {
	if !r.DocumentType.Valid() {
		return fmt.Errorf("%w: unknown document type %q", ErrInvalidRequest, r.DocumentType)
	}
	if strings.TrimSpace(r.UniversityID) == "" || strings.TrimSpace(r.ProgramID) == "" {
		return fmt.Errorf("%w: university and program are required", ErrInvalidRequest)
	}
	if r.DocumentType == domain.DocumentTypeLOR && (r.Recommender == nil || r.Recommender.Name == "") {
		return fmt.Errorf("%w: recommendation letters need a recommender", ErrInvalidRequest)
	}
	return nil
}

// UsageType returns the credit usage type charged for generating a document of docType.
// A revision of existing content is charged as an update.
func UsageType(docType domain.DocumentType, revision bool) domain.CreditUsageType {
	switch {
	case docType == domain.DocumentTypeLOR && revision:
		return domain.CreditUsageLORUpdate
	case docType == domain.DocumentTypeLOR:
		return domain.CreditUsageLORRequest
	case revision:
		return domain.CreditUsageSOPUpdate
	default:
		return domain.CreditUsageSOPRequest
	}
}
