package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// AdminVerifier checks the shared token that guards internal routes against
// its configured bcrypt hash.
type AdminVerifier struct {
	hash []byte
}

// NewAdminVerifier creates a verifier for the given bcrypt hash.
func NewAdminVerifier(hash string) (*AdminVerifier, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("admin token hash is not a bcrypt hash: %w", err)
	}
	return &AdminVerifier{hash: []byte(hash)}, nil
}

// Verify returns ErrInvalidAdminToken unless token matches the hash.
func (v *AdminVerifier) Verify(token string) error {
	if token == "" {
		return ErrMissingToken
	}
	err := bcrypt.CompareHashAndPassword(v.hash, []byte(token))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidAdminToken
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAdminToken, err)
	}
	return nil
}

// HashAdminToken returns the bcrypt hash to configure for token.
func HashAdminToken(token string) (string, error) {
	if len(token) < 16 {
		return "", errors.New("admin token must be at least 16 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash admin token: %w", err)
	}
	return string(hash), nil
}
