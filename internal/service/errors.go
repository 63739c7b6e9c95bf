package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP status codes.
//
// Every one of them is returned before the enclosing transaction writes anything,
// so a failed call never leaves partial state behind.
var (
	// ErrNotFound indicates that a referenced entity does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the acting user does not own the entity.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidArgument indicates a rejected input such as a non-positive credit
	// amount or an unknown status.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientCredits indicates a debit larger than the remaining balance.
	// API layer should map this to HTTP 402 Payment Required.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrConflict indicates the operation would duplicate a unique entity, or
	// lost a serializable transaction to a concurrent request and can be retried.
	// API layer should map this to HTTP 409 Conflict.
	ErrConflict = errors.New("conflict")
)

// InsufficientCreditsError carries the balance that caused a debit to be refused.
type InsufficientCreditsError struct {
	Remaining int
	Requested int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf(
		"Insufficient credits. You have %d credits available but %d were requested.",
		e.Remaining,
		e.Requested,
	)
}

// Unwrap lets errors.Is match ErrInsufficientCredits.
func (e *InsufficientCreditsError) Unwrap() error {
	return ErrInsufficientCredits
}

// ServiceError wraps unexpected errors with the operation that produced them.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError classifies err. Taxonomy errors and store/domain errors with a
// direct taxonomy equivalent come back as taxonomy errors; anything else is wrapped
// in a ServiceError.
func NewServiceError(operation, message string, err error) error {
	switch {
	case err == nil:
		return nil
	case isTaxonomyError(err):
		return err
	case store.IsNotFoundError(err):
		return fmt.Errorf("%w: %s: %v", ErrNotFound, message, err)
	case store.IsDuplicateError(err):
		return fmt.Errorf("%w: %s: %v", ErrConflict, message, err)
	case store.IsConcurrentUpdateError(err):
		return fmt.Errorf("%w: %s: %w", ErrConflict, message, err)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}

func isTaxonomyError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrInsufficientCredits) ||
		errors.Is(err, ErrConflict)
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// fail logs err and classifies it for the caller. Taxonomy errors are expected
// outcomes and only logged at debug level.
func fail(ctx context.Context, base *slog.Logger, op, msg string, err error, attrs ...any) error {
	log := logger.FromContextOrDefault(ctx, base)
	switch {
	case isTaxonomyError(err):
		log.Debug(msg, append(attrs, slog.String("reason", err.Error()))...)
	case store.IsConcurrentUpdateError(err):
		log.Warn(msg, append(attrs, slog.String("reason", err.Error()))...)
	default:
		log.Error(msg, append(attrs, slog.String("error", err.Error()))...)
	}
	return NewServiceError(op, msg, err)
}
