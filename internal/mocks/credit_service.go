package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/service"
)

// MockCreditService implements service.CreditService for testing.
// Methods without a configured function return zero values.
type MockCreditService struct {
	GetAccountFn func(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error)

	CreateAccountFn func(
		ctx context.Context,
		userID uuid.UUID,
		params service.CreateAccountParams,
	) (*domain.CreditAccount, error)

	DebitFn func(
		ctx context.Context,
		userID uuid.UUID,
		usageType domain.CreditUsageType,
		amount int,
		description string,
	) (domain.CreditSummary, error)

	ResetFn func(ctx context.Context, userID uuid.UUID) (domain.CreditSummary, error)

	UsageBreakdownFn func(ctx context.Context, userID uuid.UUID) ([]domain.CreditUsageStat, error)

	RemainingFn func(ctx context.Context, userID uuid.UUID) (int, error)

	ListDueAccountsFn func(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

var _ service.CreditService = (*MockCreditService)(nil)

// GetAccount implements service.CreditService
func (m *MockCreditService) GetAccount(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error) {
	if m.GetAccountFn != nil {
		return m.GetAccountFn(ctx, userID)
	}
	return nil, nil
}

// CreateAccount implements service.CreditService
func (m *MockCreditService) CreateAccount(
	ctx context.Context,
	userID uuid.UUID,
	params service.CreateAccountParams,
) (*domain.CreditAccount, error) {
	if m.CreateAccountFn != nil {
		return m.CreateAccountFn(ctx, userID, params)
	}
	return nil, nil
}

// CreateAccountInTx implements service.CreditService by delegating to CreateAccountFn.
func (m *MockCreditService) CreateAccountInTx(
	ctx context.Context,
	_ *service.Repositories,
	userID uuid.UUID,
	params service.CreateAccountParams,
) (*domain.CreditAccount, error) {
	return m.CreateAccount(ctx, userID, params)
}

// Debit implements service.CreditService
func (m *MockCreditService) Debit(
	ctx context.Context,
	userID uuid.UUID,
	usageType domain.CreditUsageType,
	amount int,
	description string,
) (domain.CreditSummary, error) {
	if m.DebitFn != nil {
		return m.DebitFn(ctx, userID, usageType, amount, description)
	}
	return domain.CreditSummary{}, nil
}

// Reset implements service.CreditService
func (m *MockCreditService) Reset(ctx context.Context, userID uuid.UUID) (domain.CreditSummary, error) {
	if m.ResetFn != nil {
		return m.ResetFn(ctx, userID)
	}
	return domain.CreditSummary{}, nil
}

// UsageBreakdown implements service.CreditService
func (m *MockCreditService) UsageBreakdown(ctx context.Context, userID uuid.UUID) ([]domain.CreditUsageStat, error) {
	if m.UsageBreakdownFn != nil {
		return m.UsageBreakdownFn(ctx, userID)
	}
	return nil, nil
}

// Remaining implements service.CreditService
func (m *MockCreditService) Remaining(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.RemainingFn != nil {
		return m.RemainingFn(ctx, userID)
	}
	return 0, nil
}

// ListDueAccounts implements service.CreditService
func (m *MockCreditService) ListDueAccounts(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	if m.ListDueAccountsFn != nil {
		return m.ListDueAccountsFn(ctx, now, limit)
	}
	return nil, nil
}
