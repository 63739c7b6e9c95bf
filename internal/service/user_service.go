package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/store"
)

// UserService provisions users from the identity provider.
type UserService interface {
	// ProvisionUser creates the user for an external identity, or refreshes its
	// name and email if it already exists. A newly created user also gets a
	// credit account in the same transaction. The bool reports creation.
	ProvisionUser(ctx context.Context, externalID, name, email string) (*domain.User, bool, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	repos   *Repositories
	credits CreditService
	now     func() time.Time
	logger  *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	repos *Repositories,
	credits CreditService,
	logger *slog.Logger,
	opts ...Option,
) (UserService, error) {
	if err := repos.Validate(); err != nil {
		return nil, err
	}
	if credits == nil {
		return nil, errors.New("credit service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := buildOptions(opts)
	return &UserServiceImpl{
		repos:   repos,
		credits: credits,
		now:     o.now,
		logger:  logger.With(slog.String("component", "user_service")),
	}, nil
}

// ProvisionUser implements UserService.
func (s *UserServiceImpl) ProvisionUser(
	ctx context.Context,
	externalID, name, email string,
) (*domain.User, bool, error) {
	candidate, err := domain.NewUser(externalID, name, email)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	var (
		user    *domain.User
		created bool
	)
	err = s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		existing, err := tx.Users.GetByExternalID(ctx, candidate.ExternalID)
		switch {
		case err == nil:
			user = existing
			if existing.Name == candidate.Name && strings.EqualFold(existing.Email, candidate.Email) {
				return nil
			}
			existing.Name = candidate.Name
			existing.Email = candidate.Email
			existing.UpdatedAt = s.now()
			if err := tx.Users.Update(ctx, existing); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
			return nil
		case !store.IsNotFoundError(err):
			return fmt.Errorf("failed to look up user: %w", err)
		}

		candidate.CreatedAt = s.now()
		candidate.UpdatedAt = candidate.CreatedAt
		if err := tx.Users.Create(ctx, candidate); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if _, err := s.credits.CreateAccountInTx(ctx, tx, candidate.ID, CreateAccountParams{}); err != nil {
			return err
		}

		user = candidate
		created = true
		return nil
	})
	if err != nil {
		return nil, false, fail(ctx, s.logger, "ProvisionUser", "failed to provision user", err,
			slog.String("external_id", externalID))
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user provisioned",
		slog.String("user_id", user.ID.String()),
		slog.Bool("created", created))

	return user, created, nil
}

// GetUser implements UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fail(ctx, s.logger, "GetUser", "failed to retrieve user", err,
			slog.String("user_id", userID.String()))
	}
	return user, nil
}
