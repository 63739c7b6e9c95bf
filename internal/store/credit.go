package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
)

// CreditAccountStore defines the interface for credit account persistence.
type CreditAccountStore interface {
	// GetByUser retrieves the user's account.
	// Returns ErrCreditAccountNotFound if the user has none.
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error)

	// Create saves a new account.
	// Returns ErrCreditAccountExists if the user already has one.
	Create(ctx context.Context, account *domain.CreditAccount) error

	// Update persists total, used and reset date.
	// Returns ErrCreditAccountNotFound if it does not exist.
	Update(ctx context.Context, account *domain.CreditAccount) error

	// ListDue returns the users whose reset date is at or before now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)

	// WithTx returns a new CreditAccountStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CreditAccountStore
}

// CreditUsageStore defines the interface for the append-only usage log.
type CreditUsageStore interface {
	// Create appends a usage record.
	Create(ctx context.Context, usage *domain.CreditUsage) error

	// SumByType returns total credits per usage type for a user.
	SumByType(ctx context.Context, userID uuid.UUID) (map[domain.CreditUsageType]int, error)

	// WithTx returns a new CreditUsageStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CreditUsageStore
}
