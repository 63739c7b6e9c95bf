package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
)

// DashboardActivityLimit is how many recent activities the dashboard shows.
const DashboardActivityLimit = 12

// DashboardService assembles the per-user overview.
type DashboardService interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error)
}

type dashboardServiceImpl struct {
	repos    *Repositories
	credits  CreditService
	activity ActivityService
	logger   *slog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	repos *Repositories,
	credits CreditService,
	activity ActivityService,
	logger *slog.Logger,
) (DashboardService, error) {
	if err := repos.Validate(); err != nil {
		return nil, err
	}
	if credits == nil {
		return nil, errors.New("credit service cannot be nil")
	}
	if activity == nil {
		return nil, errors.New("activity service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &dashboardServiceImpl{
		repos:    repos,
		credits:  credits,
		activity: activity,
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}, nil
}

func (s *dashboardServiceImpl) GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error) {
	apps, err := s.repos.Applications.ListByUser(ctx, userID)
	if err != nil {
		return nil, fail(ctx, s.logger, "GetDashboard", "failed to list applications", err,
			slog.String("user_id", userID.String()))
	}

	docs, err := s.repos.Documents.ListByUser(ctx, userID)
	if err != nil {
		return nil, fail(ctx, s.logger, "GetDashboard", "failed to list documents", err,
			slog.String("user_id", userID.String()))
	}

	account, err := s.credits.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.activity.GetRecentActivity(ctx, userID, DashboardActivityLimit)
	if err != nil {
		return nil, err
	}

	dashboard := &domain.Dashboard{
		Applications:   applicationStats(apps),
		Documents:      documentStats(docs),
		Credits:        account.Summary(),
		RecentActivity: make([]domain.Activity, 0, len(recent)),
	}
	for _, a := range recent {
		dashboard.RecentActivity = append(dashboard.RecentActivity, *a)
	}

	return dashboard, nil
}

func applicationStats(apps []*domain.Application) domain.ApplicationStats {
	stats := domain.ApplicationStats{Total: len(apps)}
	for _, app := range apps {
		switch app.Status {
		case domain.ApplicationStatusSubmitted:
			stats.Submitted++
		case domain.ApplicationStatusInProgress:
			stats.InProgress++
		}
		if stats.NextDeadline == nil || app.Deadline.Before(*stats.NextDeadline) {
			deadline := app.Deadline
			stats.NextDeadline = &deadline
		}
	}
	return stats
}

func documentStats(docs []*domain.ApplicationDocument) domain.DocumentStats {
	stats := domain.DocumentStats{Total: len(docs)}
	if len(docs) == 0 {
		return stats
	}

	sum := 0
	for _, doc := range docs {
		sum += doc.Progress
		if doc.Progress == 100 {
			stats.Completed++
		}
	}
	stats.AverageProgress = int(math.Round(float64(sum) / float64(len(docs))))
	return stats
}
