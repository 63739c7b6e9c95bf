package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gradaid/gradaid-api/internal/store"
)

// Repositories bundles the stores the services operate on together with the
// database handle used to open transactions.
type Repositories struct {
	DB           *sql.DB
	Users        store.UserStore
	Applications store.ApplicationStore
	Documents    store.DocumentStore
	Accounts     store.CreditAccountStore
	Usage        store.CreditUsageStore
	Activities   store.ActivityStore
}

// Validate checks that every dependency is present.
func (r *Repositories) Validate() error {
	switch {
	case r == nil:
		return errors.New("repositories cannot be nil")
	case r.DB == nil:
		return errors.New("db cannot be nil")
	case r.Users == nil:
		return errors.New("user store cannot be nil")
	case r.Applications == nil:
		return errors.New("application store cannot be nil")
	case r.Documents == nil:
		return errors.New("document store cannot be nil")
	case r.Accounts == nil:
		return errors.New("credit account store cannot be nil")
	case r.Usage == nil:
		return errors.New("credit usage store cannot be nil")
	case r.Activities == nil:
		return errors.New("activity store cannot be nil")
	}
	return nil
}

// WithTx returns a copy whose stores all run inside tx.
func (r *Repositories) WithTx(tx *sql.Tx) *Repositories {
	return &Repositories{
		DB:           r.DB,
		Users:        r.Users.WithTx(tx),
		Applications: r.Applications.WithTx(tx),
		Documents:    r.Documents.WithTx(tx),
		Accounts:     r.Accounts.WithTx(tx),
		Usage:        r.Usage.WithTx(tx),
		Activities:   r.Activities.WithTx(tx),
	}
}

// InTx runs fn in one serializable transaction with transaction-bound stores.
func (r *Repositories) InTx(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	return store.RunInTransaction(ctx, r.DB, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, r.WithTx(tx))
	})
}
