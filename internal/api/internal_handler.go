package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gradaid/gradaid-api/internal/api/shared"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/redact"
	"github.com/gradaid/gradaid-api/internal/service"
	"github.com/gradaid/gradaid-api/internal/service/auth"
)

// InternalHandler serves the privileged endpoints used by the identity
// provider and operators. Routes are guarded by middleware.RequireAdmin.
type InternalHandler struct {
	users         service.UserService
	credits       service.CreditService
	jwtService    auth.JWTService
	tokenLifetime time.Duration
	timeFunc      func() time.Time
	logger        *slog.Logger
}

// NewInternalHandler creates a new InternalHandler
func NewInternalHandler(
	users service.UserService,
	credits service.CreditService,
	jwtService auth.JWTService,
	tokenLifetime time.Duration,
	logger *slog.Logger,
) *InternalHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for InternalHandler")
	}

	return &InternalHandler{
		users:         users,
		credits:       credits,
		jwtService:    jwtService,
		tokenLifetime: tokenLifetime,
		timeFunc:      time.Now,
		logger:        logger.With(slog.String("component", "internal_handler")),
	}
}

// WithTimeFunc returns a copy of the handler that reads time from fn.
func (h *InternalHandler) WithTimeFunc(fn func() time.Time) *InternalHandler {
	clone := *h
	clone.timeFunc = fn
	return &clone
}

// ProvisionUser handles POST /internal/users requests. It creates the user
// and their credit account on first sight, refreshes name and email
// afterwards, and issues an access token either way.
func (h *InternalHandler) ProvisionUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ProvisionUserRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	user, created, err := h.users.ProvisionUser(r.Context(), req.ExternalID, req.Name, req.Email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to provision user")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	log.Info("user provisioned",
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(user.Email)),
		slog.Bool("created", created))
	shared.RespondWithJSON(w, r, status, ProvisionUserResponse{
		UserID:      user.ID,
		Created:     created,
		AccessToken: token,
		ExpiresAt:   h.timeFunc().Add(h.tokenLifetime).UTC().Format(time.RFC3339),
	})
}

// ResetCredits handles POST /internal/credits/{userID}/reset requests.
func (h *InternalHandler) ResetCredits(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := getPathUUID(r, "userID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	summary, err := h.credits.Reset(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset credits")
		return
	}

	log.Info("credits reset by operator", slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
