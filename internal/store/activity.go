package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
)

// ActivityStore defines the interface for the append-only activity log.
type ActivityStore interface {
	// Create appends an activity record.
	Create(ctx context.Context, activity *domain.Activity) error

	// ListRecent returns the user's newest activities, newest first.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error)

	// CountSince returns how many activities the user has recorded at or after since.
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	// WithTx returns a new ActivityStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ActivityStore
}
