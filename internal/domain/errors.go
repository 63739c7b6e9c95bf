package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidApplicationStatus is returned when an application status is not one of the known values.
	ErrInvalidApplicationStatus = errors.New("invalid application status")

	// ErrInvalidPriority is returned when an application priority is not high, medium or low.
	ErrInvalidPriority = errors.New("invalid application priority")

	// ErrInvalidDocumentType is returned when a document type is not sop or lor.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrInvalidDocumentStatus is returned when a document status is not one of the known values.
	ErrInvalidDocumentStatus = errors.New("invalid document status")

	// ErrInvalidProgress is returned when a progress value falls outside 0..100.
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")

	// ErrInvalidCreditUsageType is returned when a credit usage type is not recognized.
	ErrInvalidCreditUsageType = errors.New("invalid credit usage type")

	// ErrInvalidCreditAmount is returned when credit totals or usage are negative.
	ErrInvalidCreditAmount = errors.New("invalid credit amount")

	// ErrUnknownActivityType is returned when activity metadata cannot be decoded for its type.
	ErrUnknownActivityType = errors.New("unknown activity type")
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
