package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/store"
)

const applicationColumns = `id, user_id, university_id, program_id, status, priority,
	deadline, submission_date, notes, created_at, last_updated`

// PostgresApplicationStore implements the store.ApplicationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresApplicationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresApplicationStore creates a new PostgreSQL implementation of the ApplicationStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresApplicationStore(db store.DBTX, logger *slog.Logger) *PostgresApplicationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresApplicationStore{
		db:     db,
		logger: logger.With(slog.String("component", "application_store")),
	}
}

// Ensure PostgresApplicationStore implements store.ApplicationStore interface
var _ store.ApplicationStore = (*PostgresApplicationStore)(nil)

// WithTx implements store.ApplicationStore.WithTx
func (s *PostgresApplicationStore) WithTx(tx *sql.Tx) store.ApplicationStore {
	return &PostgresApplicationStore{db: tx, logger: s.logger}
}

// Create implements store.ApplicationStore.Create
// Returns store.ErrApplicationExists when the user already applied to the program.
func (s *PostgresApplicationStore) Create(ctx context.Context, app *domain.Application) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := app.Validate(); err != nil {
		log.Warn("application validation failed during create",
			slog.String("error", err.Error()),
			slog.String("application_id", app.ID.String()))
		return err
	}

	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		app.ID,
		app.UserID,
		app.UniversityID,
		app.ProgramID,
		app.Status,
		app.Priority,
		app.Deadline,
		app.SubmissionDate,
		app.Notes,
		app.CreatedAt,
		app.LastUpdated,
	)
	if err != nil {
		log.Error("failed to create application",
			slog.String("error", err.Error()),
			slog.String("application_id", app.ID.String()),
			slog.String("user_id", app.UserID.String()))
		return MapError(err)
	}

	log.Info("application created successfully",
		slog.String("application_id", app.ID.String()),
		slog.String("user_id", app.UserID.String()))
	return nil
}

// GetByID implements store.ApplicationStore.GetByID
func (s *PostgresApplicationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	app, err := scanApplication(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("application not found", slog.String("application_id", id.String()))
			return nil, store.ErrApplicationNotFound
		}
		log.Error("failed to get application",
			slog.String("error", err.Error()),
			slog.String("application_id", id.String()))
		return nil, MapError(err)
	}
	return app, nil
}

// FindByProgram implements store.ApplicationStore.FindByProgram
func (s *PostgresApplicationStore) FindByProgram(
	ctx context.Context,
	userID uuid.UUID,
	universityID, programID string,
) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE user_id = $1 AND university_id = $2 AND program_id = $3`
	app, err := scanApplication(s.db.QueryRowContext(ctx, query, userID, universityID, programID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrApplicationNotFound
		}
		return nil, MapError(err)
	}
	return app, nil
}

// ListByUser implements store.ApplicationStore.ListByUser
func (s *PostgresApplicationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Application, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE user_id = $1
		ORDER BY deadline ASC, created_at ASC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list applications",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	apps := []*domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			log.Error("failed to scan application row", slog.String("error", err.Error()))
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateStatus implements store.ApplicationStore.UpdateStatus
func (s *PostgresApplicationStore) UpdateStatus(ctx context.Context, app *domain.Application) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !app.Status.Valid() {
		return domain.ErrInvalidApplicationStatus
	}

	query := `
		UPDATE applications
		SET status = $1, submission_date = $2, notes = $3, last_updated = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		app.Status,
		app.SubmissionDate,
		app.Notes,
		app.LastUpdated,
		app.ID,
	)
	if err != nil {
		log.Error("failed to update application status",
			slog.String("error", err.Error()),
			slog.String("application_id", app.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrApplicationNotFound); err != nil {
		return err
	}

	log.Debug("application status updated",
		slog.String("application_id", app.ID.String()),
		slog.String("status", string(app.Status)))
	return nil
}

// Delete implements store.ApplicationStore.Delete
func (s *PostgresApplicationStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete application",
			slog.String("error", err.Error()),
			slog.String("application_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrApplicationNotFound)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	var (
		app            domain.Application
		status         string
		priority       string
		submissionDate sql.NullTime
	)

	err := row.Scan(
		&app.ID,
		&app.UserID,
		&app.UniversityID,
		&app.ProgramID,
		&status,
		&priority,
		&app.Deadline,
		&submissionDate,
		&app.Notes,
		&app.CreatedAt,
		&app.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	app.Status = domain.ApplicationStatus(status)
	app.Priority = domain.Priority(priority)
	if submissionDate.Valid {
		t := submissionDate.Time
		app.SubmissionDate = &t
	}
	return &app, nil
}
