package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/mocks"
	"github.com/gradaid/gradaid-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func creditRouter(userID uuid.UUID, credits *mocks.MockCreditService) http.Handler {
	h := NewCreditHandler(credits, discardLogger())
	return newRouter(userID, func(r chi.Router) {
		r.Get("/credits", h.GetCredits)
		r.Get("/credits/usage", h.GetUsage)
		r.Post("/credits/debit", h.Debit)
	})
}

func TestGetCredits(t *testing.T) {
	userID := uuid.New()
	resetDate := time.Date(2025, time.April, 11, 0, 0, 0, 0, time.UTC)

	credits := &mocks.MockCreditService{
		GetAccountFn: func(_ context.Context, id uuid.UUID) (*domain.CreditAccount, error) {
			return &domain.CreditAccount{UserID: id, TotalCredits: 500, UsedCredits: 460, ResetDate: resetDate}, nil
		},
	}

	rr := doRequest(t, creditRouter(userID, credits), http.MethodGet, "/credits", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	summary := decodeJSON[domain.CreditSummary](t, rr)
	assert.Equal(t, 40, summary.RemainingCredits)
	assert.Equal(t, 460, summary.UsedCredits)
	assert.True(t, resetDate.Equal(summary.ResetDate))
}

func TestGetUsage(t *testing.T) {
	userID := uuid.New()

	rr := doRequest(t, creditRouter(userID, &mocks.MockCreditService{}), http.MethodGet, "/credits/usage", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"usage":[]}`, rr.Body.String())

	credits := &mocks.MockCreditService{
		UsageBreakdownFn: func(context.Context, uuid.UUID) ([]domain.CreditUsageStat, error) {
			return []domain.CreditUsageStat{
				{Type: domain.CreditUsageSOPRequest, Credits: 30, Percentage: 75},
				{Type: domain.CreditUsageLORRequest, Credits: 10, Percentage: 25},
			}, nil
		},
	}
	rr = doRequest(t, creditRouter(userID, credits), http.MethodGet, "/credits/usage", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeJSON[CreditUsageResponse](t, rr).Usage, 2)
}

func TestDebit(t *testing.T) {
	userID := uuid.New()

	// A ledger holding {total: 500, used: 460}
	used := 460
	credits := &mocks.MockCreditService{
		DebitFn: func(
			_ context.Context,
			_ uuid.UUID,
			_ domain.CreditUsageType,
			amount int,
			_ string,
		) (domain.CreditSummary, error) {
			if amount <= 0 {
				return domain.CreditSummary{}, fmt.Errorf("%w: amount must be positive", service.ErrInvalidArgument)
			}
			if amount > 500-used {
				return domain.CreditSummary{}, &service.InsufficientCreditsError{Remaining: 500 - used, Requested: amount}
			}
			used += amount
			return domain.CreditSummary{TotalCredits: 500, UsedCredits: used, RemainingCredits: 500 - used}, nil
		},
	}
	router := creditRouter(userID, credits)

	t.Run("insufficient credits", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/credits/debit", map[string]any{"type": "sop_request", "amount": 50})

		require.Equal(t, http.StatusPaymentRequired, rr.Code)
		body := decodeError(t, rr)
		assert.Contains(t, body.Error, "40")
		assert.Contains(t, body.Error, "50")
		assert.EqualValues(t, 40, body.Details["remaining"])
		assert.EqualValues(t, 50, body.Details["requested"])
		assert.Equal(t, 460, used)
	})

	t.Run("success", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/credits/debit",
			map[string]any{"type": "ai_usage", "amount": 15, "description": "Outline"})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 25, decodeJSON[domain.CreditSummary](t, rr).RemainingCredits)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/credits/debit", map[string]any{"type": "ai_usage", "amount": 0})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid request: amount must be positive", decodeError(t, rr).Error)
	})

	t.Run("reset is not debitable", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/credits/debit", map[string]any{"type": "credits_reset", "amount": 1})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
