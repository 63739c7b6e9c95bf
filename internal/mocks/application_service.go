package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/service"
)

// MockApplicationService implements service.ApplicationService for testing.
// Methods without a configured function return zero values.
type MockApplicationService struct {
	CreateApplicationFn func(
		ctx context.Context,
		actor uuid.UUID,
		input service.CreateApplicationInput,
	) (*domain.Application, []*domain.ApplicationDocument, error)

	RecomputeApplicationStatusFn func(ctx context.Context, applicationID uuid.UUID) (domain.ApplicationStatus, error)

	UpdateApplicationStatusFn func(
		ctx context.Context,
		actor, applicationID uuid.UUID,
		input service.UpdateApplicationStatusInput,
	) (*domain.Application, error)

	GetApplicationFn func(
		ctx context.Context,
		actor, applicationID uuid.UUID,
	) (*domain.Application, []*domain.ApplicationDocument, error)

	DeleteApplicationFn func(ctx context.Context, actor, applicationID uuid.UUID) error

	ListApplicationsFn func(ctx context.Context, actor uuid.UUID) ([]domain.ApplicationSummary, error)
}

var _ service.ApplicationService = (*MockApplicationService)(nil)

// CreateApplication implements service.ApplicationService
func (m *MockApplicationService) CreateApplication(
	ctx context.Context,
	actor uuid.UUID,
	input service.CreateApplicationInput,
) (*domain.Application, []*domain.ApplicationDocument, error) {
	if m.CreateApplicationFn != nil {
		return m.CreateApplicationFn(ctx, actor, input)
	}
	return nil, nil, nil
}

// RecomputeApplicationStatus implements service.ApplicationService
func (m *MockApplicationService) RecomputeApplicationStatus(
	ctx context.Context,
	applicationID uuid.UUID,
) (domain.ApplicationStatus, error) {
	if m.RecomputeApplicationStatusFn != nil {
		return m.RecomputeApplicationStatusFn(ctx, applicationID)
	}
	return "", nil
}

// UpdateApplicationStatus implements service.ApplicationService
func (m *MockApplicationService) UpdateApplicationStatus(
	ctx context.Context,
	actor, applicationID uuid.UUID,
	input service.UpdateApplicationStatusInput,
) (*domain.Application, error) {
	if m.UpdateApplicationStatusFn != nil {
		return m.UpdateApplicationStatusFn(ctx, actor, applicationID, input)
	}
	return nil, nil
}

// DeleteApplication implements service.ApplicationService
func (m *MockApplicationService) DeleteApplication(ctx context.Context, actor, applicationID uuid.UUID) error {
	if m.DeleteApplicationFn != nil {
		return m.DeleteApplicationFn(ctx, actor, applicationID)
	}
	return nil
}

// ListApplications implements service.ApplicationService
func (m *MockApplicationService) ListApplications(
	ctx context.Context,
	actor uuid.UUID,
) ([]domain.ApplicationSummary, error) {
	if m.ListApplicationsFn != nil {
		return m.ListApplicationsFn(ctx, actor)
	}
	return nil, nil
}

// GetApplication implements service.ApplicationService
func (m *MockApplicationService) GetApplication(
	ctx context.Context,
	actor, applicationID uuid.UUID,
) (*domain.Application, []*domain.ApplicationDocument, error) {
	if m.GetApplicationFn != nil {
		return m.GetApplicationFn(ctx, actor, applicationID)
	}
	return nil, nil, nil
}
