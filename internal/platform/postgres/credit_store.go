package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/store"
)

// PostgresCreditAccountStore implements the store.CreditAccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCreditAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCreditAccountStore creates a new PostgreSQL implementation of the CreditAccountStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCreditAccountStore(db store.DBTX, logger *slog.Logger) *PostgresCreditAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCreditAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "credit_account_store")),
	}
}

// Ensure PostgresCreditAccountStore implements store.CreditAccountStore interface
var _ store.CreditAccountStore = (*PostgresCreditAccountStore)(nil)

// WithTx implements store.CreditAccountStore.WithTx
func (s *PostgresCreditAccountStore) WithTx(tx *sql.Tx) store.CreditAccountStore {
	return &PostgresCreditAccountStore{db: tx, logger: s.logger}
}

// GetByUser implements store.CreditAccountStore.GetByUser
func (s *PostgresCreditAccountStore) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, total_credits, used_credits, reset_date
		FROM credit_accounts
		WHERE user_id = $1
	`
	var a domain.CreditAccount
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&a.ID,
		&a.UserID,
		&a.TotalCredits,
		&a.UsedCredits,
		&a.ResetDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("credit account not found", slog.String("user_id", userID.String()))
			return nil, store.ErrCreditAccountNotFound
		}
		log.Error("failed to get credit account",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	return &a, nil
}

// Create implements store.CreditAccountStore.Create
func (s *PostgresCreditAccountStore) Create(ctx context.Context, account *domain.CreditAccount) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO credit_accounts (id, user_id, total_credits, used_credits, reset_date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.UserID,
		account.TotalCredits,
		account.UsedCredits,
		account.ResetDate,
	)
	if err != nil {
		log.Error("failed to create credit account",
			slog.String("error", err.Error()),
			slog.String("user_id", account.UserID.String()))
		return MapError(err)
	}

	log.Info("credit account created",
		slog.String("user_id", account.UserID.String()),
		slog.Int("total_credits", account.TotalCredits))
	return nil
}

// Update implements store.CreditAccountStore.Update
func (s *PostgresCreditAccountStore) Update(ctx context.Context, account *domain.CreditAccount) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE credit_accounts
		SET total_credits = $1, used_credits = $2, reset_date = $3
		WHERE user_id = $4
	`
	result, err := s.db.ExecContext(ctx, query,
		account.TotalCredits,
		account.UsedCredits,
		account.ResetDate,
		account.UserID,
	)
	if err != nil {
		log.Error("failed to update credit account",
			slog.String("error", err.Error()),
			slog.String("user_id", account.UserID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCreditAccountNotFound)
}

// ListDue implements store.CreditAccountStore.ListDue
func (s *PostgresCreditAccountStore) ListDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT user_id
		FROM credit_accounts
		WHERE reset_date <= $1
		ORDER BY reset_date ASC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		log.Error("failed to list due credit accounts", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// PostgresCreditUsageStore implements the store.CreditUsageStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCreditUsageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCreditUsageStore creates a new PostgreSQL implementation of the CreditUsageStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCreditUsageStore(db store.DBTX, logger *slog.Logger) *PostgresCreditUsageStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCreditUsageStore{
		db:     db,
		logger: logger.With(slog.String("component", "credit_usage_store")),
	}
}

// Ensure PostgresCreditUsageStore implements store.CreditUsageStore interface
var _ store.CreditUsageStore = (*PostgresCreditUsageStore)(nil)

// WithTx implements store.CreditUsageStore.WithTx
func (s *PostgresCreditUsageStore) WithTx(tx *sql.Tx) store.CreditUsageStore {
	return &PostgresCreditUsageStore{db: tx, logger: s.logger}
}

// Create implements store.CreditUsageStore.Create
func (s *PostgresCreditUsageStore) Create(ctx context.Context, usage *domain.CreditUsage) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO credit_usage (id, user_id, type, credits, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		usage.ID,
		usage.UserID,
		usage.Type,
		usage.Credits,
		usage.Description,
		usage.CreatedAt,
	)
	if err != nil {
		log.Error("failed to record credit usage",
			slog.String("error", err.Error()),
			slog.String("user_id", usage.UserID.String()),
			slog.String("type", string(usage.Type)))
		return MapError(err)
	}
	return nil
}

// SumByType implements store.CreditUsageStore.SumByType
func (s *PostgresCreditUsageStore) SumByType(
	ctx context.Context,
	userID uuid.UUID,
) (map[domain.CreditUsageType]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT type, COALESCE(SUM(credits), 0)
		FROM credit_usage
		WHERE user_id = $1
		GROUP BY type
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to sum credit usage",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	sums := make(map[domain.CreditUsageType]int)
	for rows.Next() {
		var (
			usageType string
			total     int
		)
		if err := rows.Scan(&usageType, &total); err != nil {
			return nil, err
		}
		sums[domain.CreditUsageType(usageType)] = total
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sums, nil
}
