package generation

import "errors"

// Errors returned by Generator implementations. The API maps them to
// 400 (request), 422 (blocked), 502 (invalid or failed) and 503 (transient).
var (
	ErrGenerationFailed = errors.New("failed to generate document content")
	ErrInvalidResponse  = errors.New("invalid response from language model")
	ErrContentBlocked   = errors.New("content blocked by language model safety filters")
	// ErrTransientFailure means the call may succeed if the caller tries again later.
	ErrTransientFailure = errors.New("transient error during document generation")
	ErrInvalidConfig    = errors.New("invalid generator configuration")
	// ErrInvalidRequest is returned before any model call when a Request is incomplete.
	ErrInvalidRequest = errors.New("invalid generation request")
)
