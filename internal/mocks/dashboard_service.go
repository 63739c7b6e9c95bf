package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/service"
)

// MockDashboardService implements service.DashboardService for testing.
type MockDashboardService struct {
	GetDashboardFn func(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error)
}

var _ service.DashboardService = (*MockDashboardService)(nil)

// GetDashboard implements service.DashboardService
func (m *MockDashboardService) GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error) {
	if m.GetDashboardFn != nil {
		return m.GetDashboardFn(ctx, userID)
	}
	return &domain.Dashboard{RecentActivity: []domain.Activity{}}, nil
}
