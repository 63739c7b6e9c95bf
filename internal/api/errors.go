package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gradaid/gradaid-api/internal/api/shared"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/generation"
	"github.com/gradaid/gradaid-api/internal/redact"
	"github.com/gradaid/gradaid-api/internal/service"
	"github.com/gradaid/gradaid-api/internal/service/auth"
	"github.com/gradaid/gradaid-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Credit errors
	case errors.Is(err, service.ErrInsufficientCredits):
		return http.StatusPaymentRequired

	// Conflict errors
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrConcurrentUpdate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, generation.ErrInvalidRequest):
		return http.StatusBadRequest

	// Generation errors
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var insufficient *service.InsufficientCreditsError
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &insufficient):
		return insufficient.Error()

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"

	case errors.Is(err, service.ErrForbidden):
		return "You do not have access to this resource"

	case errors.Is(err, store.ErrApplicationNotFound):
		return "Application not found"
	case errors.Is(err, store.ErrDocumentNotFound):
		return "Document not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, service.ErrInsufficientCredits):
		return "Insufficient credits"

	case errors.Is(err, store.ErrConcurrentUpdate):
		return "The resource was modified by a concurrent request, please retry"
	case errors.Is(err, store.ErrApplicationExists):
		return "An application to this program already exists"
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, generation.ErrInvalidRequest):
		return invalidArgumentMessage(err)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case errors.As(err, &validation):
		return fmt.Sprintf("Invalid %s: %s", validation.Field, validation.Message)
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The generated content was blocked by safety filters"
	case errors.Is(err, generation.ErrTransientFailure):
		return "Content generation is temporarily unavailable"
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return "Content generation failed"

	default:
		return "An unexpected error occurred"
	}
}

// invalidArgumentMessage exposes the reason for a rejected argument with any
// sensitive fragments redacted.
func invalidArgumentMessage(err error) string {
	msg := err.Error()
	for _, prefix := range []string{service.ErrInvalidArgument.Error() + ": ", generation.ErrInvalidRequest.Error() + ": "} {
		if i := strings.Index(msg, prefix); i >= 0 {
			msg = msg[i+len(prefix):]
			break
		}
	}
	if msg == "" || msg == service.ErrInvalidArgument.Error() {
		return "Invalid request"
	}
	return "Invalid request: " + redact.String(msg)
}

// HandleAPIError writes the mapped status and sanitized message for err. A
// non-empty fallback replaces the generic message on 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	var insufficient *service.InsufficientCreditsError
	if errors.As(err, &insufficient) {
		opts = append(opts, shared.WithDetails(map[string]any{
			"remaining": insufficient.Remaining,
			"requested": insufficient.Requested,
		}))
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// HandleValidationError writes a 400 response for a request body that failed
// struct validation.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example: "Key: 'SetRecommenderRequest.Email' Error:Field validation for 'Email' failed on the 'email' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gt", "gte":
		return "too small"
	case "max", "lt", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
