package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/service"
)

// MockUserService implements service.UserService for testing.
type MockUserService struct {
	ProvisionUserFn func(ctx context.Context, externalID, name, email string) (*domain.User, bool, error)

	GetUserFn func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

var _ service.UserService = (*MockUserService)(nil)

// ProvisionUser implements service.UserService
func (m *MockUserService) ProvisionUser(
	ctx context.Context,
	externalID, name, email string,
) (*domain.User, bool, error) {
	if m.ProvisionUserFn != nil {
		return m.ProvisionUserFn(ctx, externalID, name, email)
	}
	return nil, false, nil
}

// GetUser implements service.UserService
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, nil
}
