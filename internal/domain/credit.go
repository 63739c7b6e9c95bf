package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CreditUsageType classifies a credit usage record.
type CreditUsageType string

// Possible credit usage types
const (
	CreditUsageLORRequest CreditUsageType = "lor_request"
	CreditUsageLORUpdate  CreditUsageType = "lor_update"
	CreditUsageSOPRequest CreditUsageType = "sop_request"
	CreditUsageSOPUpdate  CreditUsageType = "sop_update"
	CreditUsageAIUsage    CreditUsageType = "ai_usage"
	CreditUsageReset      CreditUsageType = "credits_reset"
)

// Valid reports whether t is a known usage type.
func (t CreditUsageType) Valid() bool {
	switch t {
	case CreditUsageLORRequest, CreditUsageLORUpdate, CreditUsageSOPRequest,
		CreditUsageSOPUpdate, CreditUsageAIUsage, CreditUsageReset:
		return true
	default:
		return false
	}
}

// Debitable reports whether callers may debit credits under this type.
// Resets are recorded by the ledger itself.
func (t CreditUsageType) Debitable() bool {
	return t.Valid() && t != CreditUsageReset
}

// Common validation errors for credit records
var (
	ErrEmptyCreditAccountUserID = errors.New("credit account user ID cannot be empty")
	ErrNegativeTotalCredits     = errors.New("total credits cannot be negative")
	ErrNegativeUsedCredits      = errors.New("used credits cannot be negative")
	ErrEmptyResetDate           = errors.New("credit reset date cannot be empty")
)

// CreditAccount is the per-user AI credit balance. There is at most one per user.
type CreditAccount struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	TotalCredits int       `json:"total_credits"`
	UsedCredits  int       `json:"used_credits"`
	ResetDate    time.Time `json:"reset_date"`
}

// NewCreditAccount creates a credit account with the given balance.
func NewCreditAccount(userID uuid.UUID, total, used int, resetDate time.Time) (*CreditAccount, error) {
	account := &CreditAccount{
		ID:           uuid.New(),
		UserID:       userID,
		TotalCredits: total,
		UsedCredits:  used,
		ResetDate:    resetDate.UTC(),
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the CreditAccount has valid data.
func (a *CreditAccount) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrEmptyCreditAccountUserID
	}

	if a.TotalCredits < 0 {
		return ErrNegativeTotalCredits
	}

	if a.UsedCredits < 0 {
		return ErrNegativeUsedCredits
	}

	if a.ResetDate.IsZero() {
		return ErrEmptyResetDate
	}

	return nil
}

// Remaining returns max(0, total - used).
func (a *CreditAccount) Remaining() int {
	if remaining := a.TotalCredits - a.UsedCredits; remaining > 0 {
		return remaining
	}
	return 0
}

// Summary returns the read model exposed to callers.
func (a *CreditAccount) Summary() CreditSummary {
	return CreditSummary{
		TotalCredits:     a.TotalCredits,
		UsedCredits:      a.UsedCredits,
		RemainingCredits: a.Remaining(),
		ResetDate:        a.ResetDate,
	}
}

// CreditSummary is the balance view returned by ledger operations.
type CreditSummary struct {
	TotalCredits     int       `json:"total_credits"`
	UsedCredits      int       `json:"used_credits"`
	RemainingCredits int       `json:"remaining_credits"`
	ResetDate        time.Time `json:"reset_date"`
}

// CreditUsage is an append-only record of credits spent (or a reset marker).
type CreditUsage struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Type        CreditUsageType `json:"type"`
	Credits     int             `json:"credits"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewCreditUsage creates a usage record stamped with the current time.
func NewCreditUsage(userID uuid.UUID, usageType CreditUsageType, credits int, description string) (*CreditUsage, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyCreditAccountUserID
	}
	if !usageType.Valid() {
		return nil, ErrInvalidCreditUsageType
	}
	if credits < 0 {
		return nil, ErrInvalidCreditAmount
	}

	return &CreditUsage{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        usageType,
		Credits:     credits,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// CreditUsageStat is one row of the usage breakdown.
type CreditUsageStat struct {
	Type       CreditUsageType `json:"type"`
	Credits    int             `json:"credits"`
	Percentage int             `json:"percentage"`
}
