package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrUserExists if the external identity is already provisioned.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByExternalID retrieves a user by identity provider subject.
	// Returns ErrUserNotFound if the user does not exist.
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)

	// Update modifies an existing user's name and email.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
