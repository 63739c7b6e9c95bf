package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/store"
)

// PostgresActivityStore implements the store.ActivityStore interface
// using a PostgreSQL database as the storage backend. Activity details are
// stored as JSONB and decoded back into their typed form by activity type.
type PostgresActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityStore creates a new PostgreSQL implementation of the ActivityStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresActivityStore(db store.DBTX, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

// Ensure PostgresActivityStore implements store.ActivityStore interface
var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// WithTx implements store.ActivityStore.WithTx
func (s *PostgresActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return &PostgresActivityStore{db: tx, logger: s.logger}
}

// Create implements store.ActivityStore.Create
func (s *PostgresActivityStore) Create(ctx context.Context, activity *domain.Activity) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	metadata, err := json.Marshal(activity.Details)
	if err != nil {
		return fmt.Errorf("%w: cannot encode activity metadata: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO activities (id, user_id, type, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query,
		activity.ID,
		activity.UserID,
		activity.Type,
		activity.Description,
		metadata,
		activity.CreatedAt,
	)
	if err != nil {
		log.Error("failed to record activity",
			slog.String("error", err.Error()),
			slog.String("user_id", activity.UserID.String()),
			slog.String("type", string(activity.Type)))
		return MapError(err)
	}
	return nil
}

// ListRecent implements store.ActivityStore.ListRecent
func (s *PostgresActivityStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, type, description, metadata, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list activities",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	activities := []*domain.Activity{}
	for rows.Next() {
		var (
			a            domain.Activity
			activityType string
			metadata     []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &activityType, &a.Description, &metadata, &a.CreatedAt); err != nil {
			return nil, err
		}

		a.Type = domain.ActivityType(activityType)
		details, err := domain.DecodeActivityDetails(a.Type, metadata)
		if err != nil {
			// Unknown or legacy rows are still listed, without details.
			log.Warn("skipping undecodable activity metadata",
				slog.String("activity_id", a.ID.String()),
				slog.String("error", err.Error()))
		}
		a.Details = details
		activities = append(activities, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}

// CountSince implements store.ActivityStore.CountSince
func (s *PostgresActivityStore) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM activities WHERE user_id = $1 AND created_at >= $2`

	var n int
	if err := s.db.QueryRowContext(ctx, query, userID, since).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}
