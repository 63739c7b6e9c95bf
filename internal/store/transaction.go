package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gradaid/gradaid-api/internal/platform/logger"
)

// TxFn is the unit of work passed to RunInTransaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// TxOptions are the options every mutation runs under. Serializable isolation
// keeps a balance check and the debit that follows it consistent under
// concurrent requests for the same account.
var TxOptions = &sql.TxOptions{Isolation: sql.LevelSerializable}

// RunInTransaction runs fn in a serializable transaction, committing when fn
// returns nil and rolling back otherwise. A panic inside fn rolls back and is
// re-raised. Serialization failures come back wrapped in ErrConcurrentUpdate
// and are not retried.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) (err error) {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, TxOptions)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction after panic",
				slog.String("error", rbErr.Error()), slog.Any("panic", p))
		} else {
			log.Error("rolled back transaction after panic", slog.Any("panic", p))
		}
		// ALLOW-PANIC: re-raise after releasing the transaction
		panic(p)
	}()

	if err := fn(ctx, tx); err != nil {
		return rollback(log, tx, err)
	}

	if err := tx.Commit(); err != nil {
		if IsSerializationFailure(err) {
			log.Warn("transaction lost to a concurrent update", slog.String("error", err.Error()))
			return fmt.Errorf("%w: failed to commit transaction: %w", ErrConcurrentUpdate, err)
		}
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rollback aborts tx and returns cause, annotated if the rollback itself fails.
func rollback(log *slog.Logger, tx *sql.Tx, cause error) error {
	if rbErr := tx.Rollback(); rbErr != nil {
		log.Error("failed to roll back transaction",
			slog.String("rollback_error", rbErr.Error()),
			slog.String("original_error", cause.Error()))
		return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, cause)
	}
	log.Debug("rolled back transaction", slog.String("error", cause.Error()))
	return cause
}
