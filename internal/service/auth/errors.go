package auth

import "errors"

// Token errors. The auth middleware maps each one to a 401 response.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")
	// ErrWrongTokenType is returned for a well-signed token that is not an access token.
	ErrWrongTokenType = errors.New("wrong token type")
)

// ErrInvalidAdminToken is returned when the X-Admin-Token header does not
// match the configured hash.
var ErrInvalidAdminToken = errors.New("invalid admin token")
