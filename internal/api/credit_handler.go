package api

import (
	"log/slog"
	"net/http"

	"github.com/gradaid/gradaid-api/internal/api/shared"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/service"
)

// CreditHandler handles credit ledger HTTP requests
type CreditHandler struct {
	credits service.CreditService
	logger  *slog.Logger
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(credits service.CreditService, logger *slog.Logger) *CreditHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CreditHandler")
	}

	return &CreditHandler{
		credits: credits,
		logger:  logger.With(slog.String("component", "credit_handler")),
	}
}

// GetCredits handles GET /credits requests. Users without an account see the
// default balance.
func (h *CreditHandler) GetCredits(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	account, err := h.credits.GetAccount(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get credits")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, account.Summary())
}

// GetUsage handles GET /credits/usage requests.
func (h *CreditHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	usage, err := h.credits.UsageBreakdown(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get credit usage")
		return
	}
	if usage == nil {
		usage = []domain.CreditUsageStat{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CreditUsageResponse{Usage: usage})
}

// Debit handles POST /credits/debit requests.
// Insufficient balances are reported with 402 and the remaining and requested amounts.
func (h *CreditHandler) Debit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req DebitRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	summary, err := h.credits.Debit(r.Context(), userID, domain.CreditUsageType(req.Type), req.Amount, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to debit credits")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
