package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
)

// ApplicationStore defines the interface for application persistence.
type ApplicationStore interface {
	// Create saves a new application.
	// Returns ErrApplicationExists if the user already applied to the program.
	Create(ctx context.Context, app *domain.Application) error

	// GetByID retrieves an application by ID.
	// Returns ErrApplicationNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)

	// FindByProgram returns the user's application to a program.
	// Returns ErrApplicationNotFound if there is none.
	FindByProgram(ctx context.Context, userID uuid.UUID, universityID, programID string) (*domain.Application, error)

	// ListByUser returns the user's applications ordered by deadline.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Application, error)

	// UpdateStatus persists status, submission date, notes and last updated time.
	// Returns ErrApplicationNotFound if it does not exist.
	UpdateStatus(ctx context.Context, app *domain.Application) error

	// Delete removes an application. Its documents are removed by ON DELETE CASCADE.
	// Returns ErrApplicationNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ApplicationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ApplicationStore
}
