package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
)

// DocumentStore defines the interface for application document persistence.
type DocumentStore interface {
	// Create saves a new document.
	Create(ctx context.Context, doc *domain.ApplicationDocument) error

	// CreateMultiple saves several documents.
	// This method MUST be run within a transaction for atomicity.
	CreateMultiple(ctx context.Context, docs []*domain.ApplicationDocument) error

	// GetByID retrieves a document by ID.
	// Returns ErrDocumentNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ApplicationDocument, error)

	// ListByApplication returns the documents of one application in creation order.
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*domain.ApplicationDocument, error)

	// ListByUser returns all documents owned by a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ApplicationDocument, error)

	// Update persists the mutable fields of a document: status, progress,
	// content, recommender, last edited time and suggestion count.
	// Returns ErrDocumentNotFound if it does not exist.
	Update(ctx context.Context, doc *domain.ApplicationDocument) error

	// WithTx returns a new DocumentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DocumentStore
}
