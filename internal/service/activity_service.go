package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/store"
)

const (
	// DefaultActivityLimit is used when a caller asks for zero or fewer entries.
	DefaultActivityLimit = 10
	// MaxActivityLimit caps how many entries one query returns.
	MaxActivityLimit = 100
)

// ActivityService appends and reads the per-user audit log.
type ActivityService interface {
	// Log appends one record through the given store. Callers pass a
	// transaction-bound store so the entry commits with the change it describes.
	Log(
		ctx context.Context,
		activities store.ActivityStore,
		userID uuid.UUID,
		description string,
		details domain.ActivityDetails,
	) (*domain.Activity, error)

	// GetRecentActivity returns the newest entries first. A limit of zero or
	// less means DefaultActivityLimit; larger limits are capped at MaxActivityLimit.
	GetRecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error)

	// GetActivityStats counts entries since the start of the current UTC day,
	// week (Sunday) and month.
	GetActivityStats(ctx context.Context, userID uuid.UUID) (*domain.ActivityStats, error)
}

type activityServiceImpl struct {
	repos  *Repositories
	now    func() time.Time
	logger *slog.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(repos *Repositories, logger *slog.Logger, opts ...Option) (ActivityService, error) {
	if err := repos.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := buildOptions(opts)
	return &activityServiceImpl{
		repos:  repos,
		now:    o.now,
		logger: logger.With(slog.String("component", "activity_service")),
	}, nil
}

func (s *activityServiceImpl) Log(
	ctx context.Context,
	activities store.ActivityStore,
	userID uuid.UUID,
	description string,
	details domain.ActivityDetails,
) (*domain.Activity, error) {
	activity, err := domain.NewActivity(userID, description, details)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	activity.CreatedAt = s.now()

	if err := activities.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to record %s activity: %w", activity.Type, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("activity recorded",
		slog.String("user_id", userID.String()),
		slog.String("type", string(activity.Type)))

	return activity, nil
}

func (s *activityServiceImpl) GetRecentActivity(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Activity, error) {
	limit = clampActivityLimit(limit)

	activities, err := s.repos.Activities.ListRecent(ctx, userID, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list recent activity",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("GetRecentActivity", "failed to list activity", err)
	}

	if activities == nil {
		activities = []*domain.Activity{}
	}
	return activities, nil
}

func (s *activityServiceImpl) GetActivityStats(ctx context.Context, userID uuid.UUID) (*domain.ActivityStats, error) {
	day, week, month := activityWindows(s.now())

	var stats domain.ActivityStats
	windows := []struct {
		since time.Time
		dst   *int
	}{
		{day, &stats.Today},
		{week, &stats.ThisWeek},
		{month, &stats.ThisMonth},
	}

	for _, w := range windows {
		count, err := s.repos.Activities.CountSince(ctx, userID, w.since)
		if err != nil {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to count activity",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.Time("since", w.since))
			return nil, NewServiceError("GetActivityStats", "failed to count activity", err)
		}
		*w.dst = count
	}

	return &stats, nil
}

func clampActivityLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultActivityLimit
	case limit > MaxActivityLimit:
		return MaxActivityLimit
	default:
		return limit
	}
}

// activityWindows returns the UTC start of the day, week (Sunday) and month containing now.
func activityWindows(now time.Time) (day, week, month time.Time) {
	now = now.UTC()
	day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	week = day.AddDate(0, 0, -int(day.Weekday()))
	month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return day, week, month
}
