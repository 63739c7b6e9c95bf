package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific not found errors wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a second application to the same program).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or violates a database constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrApplicationNotFound indicates that the requested application does not exist.
	ErrApplicationNotFound = fmt.Errorf("%w: application", ErrNotFound)

	// ErrDocumentNotFound indicates that the requested document does not exist.
	ErrDocumentNotFound = fmt.Errorf("%w: document", ErrNotFound)

	// ErrCreditAccountNotFound indicates that the user has no credit account.
	ErrCreditAccountNotFound = fmt.Errorf("%w: credit account", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrUserExists indicates that the external identity is already provisioned.
	ErrUserExists = fmt.Errorf("%w: user", ErrDuplicate)

	// ErrApplicationExists indicates that the user already applied to the program.
	ErrApplicationExists = fmt.Errorf("%w: application", ErrDuplicate)

	// ErrCreditAccountExists indicates that the user already has a credit account.
	ErrCreditAccountExists = fmt.Errorf("%w: credit account", ErrDuplicate)

	// ErrConcurrentUpdate is returned when a serializable transaction was aborted
	// because a concurrent one touched the same rows. Nothing was written and the
	// operation can be retried.
	ErrConcurrentUpdate = errors.New("concurrent update")
)

// serializationFailureCode is the SQLSTATE Postgres reports for a serializable
// transaction that lost to a concurrent one.
const serializationFailureCode = "40001"

// IsNotFoundError checks if the error is any kind of "not found" error.
// Entity-specific errors wrap ErrNotFound so a single errors.Is suffices.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsConcurrentUpdateError checks if the error is a lost serializable transaction.
func IsConcurrentUpdateError(err error) bool {
	return errors.Is(err, ErrConcurrentUpdate)
}

// IsSerializationFailure reports whether err is a raw driver error carrying
// SQLSTATE 40001. Drivers expose the code through a SQLState method.
func IsSerializationFailure(err error) bool {
	var coded interface{ SQLState() string }
	return errors.As(err, &coded) && coded.SQLState() == serializationFailureCode
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "application", "document")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
