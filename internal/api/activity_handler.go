package api

import (
	"log/slog"
	"net/http"

	"github.com/gradaid/gradaid-api/internal/api/shared"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/service"
)

// ActivityHandler serves the activity feed and the dashboard
type ActivityHandler struct {
	activity  service.ActivityService
	dashboard service.DashboardService
	logger    *slog.Logger
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(
	activity service.ActivityService,
	dashboard service.DashboardService,
	logger *slog.Logger,
) *ActivityHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ActivityHandler")
	}

	return &ActivityHandler{
		activity:  activity,
		dashboard: dashboard,
		logger:    logger.With(slog.String("component", "activity_handler")),
	}
}

// GetRecentActivity handles GET /activity?limit= requests. Out of range
// limits are clamped by the service.
func (h *ActivityHandler) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", service.DefaultActivityLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	activities, err := h.activity.GetRecentActivity(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get activity")
		return
	}
	if activities == nil {
		activities = []*domain.Activity{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ActivityListResponse{Activities: activities})
}

// GetActivityStats handles GET /activity/stats requests.
func (h *ActivityHandler) GetActivityStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	stats, err := h.activity.GetActivityStats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get activity stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetDashboard handles GET /dashboard requests.
func (h *ActivityHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	dashboard, err := h.dashboard.GetDashboard(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load dashboard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, dashboard)
}
