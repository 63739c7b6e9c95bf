package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID     = errors.New("user ID cannot be empty")
	ErrEmptyExternalID = errors.New("external identity reference cannot be empty")
	ErrEmptyEmail      = errors.New("email cannot be empty")
)

// User is a person tracking applications. Users are provisioned from an
// external identity provider; ExternalID is the provider's subject.
type User struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewUser creates a new User for the given identity provider subject.
// Returns an error if validation fails.
func NewUser(externalID, name, email string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:         uuid.New(),
		ExternalID: strings.TrimSpace(externalID),
		Name:       strings.TrimSpace(name),
		Email:      strings.TrimSpace(email),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.ExternalID == "" {
		return ErrEmptyExternalID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// validateEmailFormat reports whether s is a bare RFC 5322 address.
func validateEmailFormat(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
