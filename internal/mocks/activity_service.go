package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/service"
	"github.com/gradaid/gradaid-api/internal/store"
)

// MockActivityService implements service.ActivityService for testing.
type MockActivityService struct {
	GetRecentActivityFn func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error)

	GetActivityStatsFn func(ctx context.Context, userID uuid.UUID) (*domain.ActivityStats, error)
}

var _ service.ActivityService = (*MockActivityService)(nil)

// Log implements service.ActivityService by building the activity without storing it.
func (m *MockActivityService) Log(
	_ context.Context,
	_ store.ActivityStore,
	userID uuid.UUID,
	description string,
	details domain.ActivityDetails,
) (*domain.Activity, error) {
	return domain.NewActivity(userID, description, details)
}

// GetRecentActivity implements service.ActivityService
func (m *MockActivityService) GetRecentActivity(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Activity, error) {
	if m.GetRecentActivityFn != nil {
		return m.GetRecentActivityFn(ctx, userID, limit)
	}
	return []*domain.Activity{}, nil
}

// GetActivityStats implements service.ActivityService
func (m *MockActivityService) GetActivityStats(ctx context.Context, userID uuid.UUID) (*domain.ActivityStats, error) {
	if m.GetActivityStatsFn != nil {
		return m.GetActivityStatsFn(ctx, userID)
	}
	return &domain.ActivityStats{}, nil
}
