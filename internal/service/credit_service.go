package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/store"
)

// ResetDescription is recorded on the usage entry written by every reset.
const ResetDescription = "Credits automatically replenished."

// LedgerSettings holds the ledger's configured defaults.
type LedgerSettings struct {
	// DefaultTotal is the balance granted to new accounts.
	DefaultTotal int
	// ResetWindow is how far after account creation or reset the next reset is due.
	ResetWindow time.Duration
}

// Validate checks the settings.
func (s LedgerSettings) Validate() error {
	if s.DefaultTotal < 0 {
		return errors.New("default credit total cannot be negative")
	}
	if s.ResetWindow <= 0 {
		return errors.New("credit reset window must be positive")
	}
	return nil
}

// CreateAccountParams overrides the defaults of a new account. A nil
// TotalCredits means the configured total; an explicit zero creates an account
// with no credits. A zero ResetDate means now plus the reset window.
type CreateAccountParams struct {
	TotalCredits *int
	UsedCredits  int
	ResetDate    time.Time
}

// CreditService manages per-user AI credit balances.
type CreditService interface {
	// GetAccount returns the stored account, or an unpersisted default when the
	// user has none yet.
	GetAccount(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error)

	// CreateAccount persists a new account. Returns ErrConflict if one exists.
	CreateAccount(ctx context.Context, userID uuid.UUID, params CreateAccountParams) (*domain.CreditAccount, error)

	// CreateAccountInTx is CreateAccount inside a caller's transaction.
	CreateAccountInTx(
		ctx context.Context,
		tx *Repositories,
		userID uuid.UUID,
		params CreateAccountParams,
	) (*domain.CreditAccount, error)

	// Debit spends credits, creating the account on first use.
	// Returns ErrInvalidArgument for non-positive amounts and an
	// *InsufficientCreditsError when the balance does not cover amount.
	Debit(
		ctx context.Context,
		userID uuid.UUID,
		usageType domain.CreditUsageType,
		amount int,
		description string,
	) (domain.CreditSummary, error)

	// Reset zeroes used credits and re-anchors the reset date to now.
	Reset(ctx context.Context, userID uuid.UUID) (domain.CreditSummary, error)

	// UsageBreakdown sums usage per type with its share of the total.
	// Returns an empty slice when nothing has been used.
	UsageBreakdown(ctx context.Context, userID uuid.UUID) ([]domain.CreditUsageStat, error)

	// Remaining returns the spendable balance.
	Remaining(ctx context.Context, userID uuid.UUID) (int, error)

	// ListDueAccounts returns users whose reset date has passed.
	ListDueAccounts(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

type creditServiceImpl struct {
	repos    *Repositories
	activity ActivityService
	settings LedgerSettings
	now      func() time.Time
	metrics  Metrics
	logger   *slog.Logger
}

// NewCreditService creates a new CreditService.
func NewCreditService(
	repos *Repositories,
	activity ActivityService,
	settings LedgerSettings,
	logger *slog.Logger,
	opts ...Option,
) (CreditService, error) {
	if err := repos.Validate(); err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, errors.New("activity service cannot be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := buildOptions(opts)
	return &creditServiceImpl{
		repos:    repos,
		activity: activity,
		settings: settings,
		now:      o.now,
		metrics:  o.metrics,
		logger:   logger.With(slog.String("component", "credit_service")),
	}, nil
}

func (s *creditServiceImpl) GetAccount(ctx context.Context, userID uuid.UUID) (*domain.CreditAccount, error) {
	account, err := s.repos.Accounts.GetByUser(ctx, userID)
	if err == nil {
		return account, nil
	}
	if !store.IsNotFoundError(err) {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load credit account",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("GetAccount", "failed to load credit account", err)
	}

	return &domain.CreditAccount{
		UserID:       userID,
		TotalCredits: s.settings.DefaultTotal,
		UsedCredits:  0,
		ResetDate:    s.now().Add(s.settings.ResetWindow),
	}, nil
}

func (s *creditServiceImpl) CreateAccount(
	ctx context.Context,
	userID uuid.UUID,
	params CreateAccountParams,
) (*domain.CreditAccount, error) {
	var account *domain.CreditAccount
	err := s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		var err error
		account, err = s.CreateAccountInTx(ctx, tx, userID, params)
		return err
	})
	if err != nil {
		return nil, NewServiceError("CreateAccount", "failed to create credit account", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("credit account created",
		slog.String("user_id", userID.String()),
		slog.Int("total_credits", account.TotalCredits),
		slog.Time("reset_date", account.ResetDate))
	return account, nil
}

func (s *creditServiceImpl) CreateAccountInTx(
	ctx context.Context,
	tx *Repositories,
	userID uuid.UUID,
	params CreateAccountParams,
) (*domain.CreditAccount, error) {
	total := s.settings.DefaultTotal
	if params.TotalCredits != nil {
		total = *params.TotalCredits
	}
	resetDate := params.ResetDate
	if resetDate.IsZero() {
		resetDate = s.now().Add(s.settings.ResetWindow)
	}

	account, err := domain.NewCreditAccount(userID, total, params.UsedCredits, resetDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if err := tx.Accounts.Create(ctx, account); err != nil {
		if store.IsDuplicateError(err) {
			return nil, fmt.Errorf("%w: user %s already has a credit account", ErrConflict, userID)
		}
		return nil, fmt.Errorf("failed to create credit account: %w", err)
	}

	// The caller's transaction may still roll back.
	logger.FromContextOrDefault(ctx, s.logger).Debug("credit account staged",
		slog.String("user_id", userID.String()),
		slog.Int("total_credits", account.TotalCredits))

	return account, nil
}

// loadOrCreate returns the user's account, persisting a default one when absent.
func (s *creditServiceImpl) loadOrCreate(
	ctx context.Context,
	tx *Repositories,
	userID uuid.UUID,
) (*domain.CreditAccount, error) {
	account, err := tx.Accounts.GetByUser(ctx, userID)
	if err == nil {
		return account, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load credit account: %w", err)
	}
	return s.CreateAccountInTx(ctx, tx, userID, CreateAccountParams{})
}

func (s *creditServiceImpl) Debit(
	ctx context.Context,
	userID uuid.UUID,
	usageType domain.CreditUsageType,
	amount int,
	description string,
) (domain.CreditSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amount <= 0 {
		s.metrics.DebitRejected("invalid_amount")
		return domain.CreditSummary{}, invalidArgument("credit amount must be positive, got %d", amount)
	}
	if !usageType.Debitable() {
		s.metrics.DebitRejected("invalid_type")
		return domain.CreditSummary{}, invalidArgument("credit usage type %q cannot be debited", usageType)
	}

	var summary domain.CreditSummary
	err := s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		account, err := s.loadOrCreate(ctx, tx, userID)
		if err != nil {
			return err
		}

		if amount > account.TotalCredits-account.UsedCredits {
			return &InsufficientCreditsError{Remaining: account.Remaining(), Requested: amount}
		}

		account.UsedCredits += amount
		if err := tx.Accounts.Update(ctx, account); err != nil {
			return fmt.Errorf("failed to update credit account: %w", err)
		}

		usage, err := domain.NewCreditUsage(userID, usageType, amount, description)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		usage.CreatedAt = s.now()
		if err := tx.Usage.Create(ctx, usage); err != nil {
			return fmt.Errorf("failed to record credit usage: %w", err)
		}

		activityDescription := fmt.Sprintf("Used %d credits for %s", amount, usageType)
		if description != "" {
			activityDescription += ": " + description
		}
		_, err = s.activity.Log(ctx, tx.Activities, userID, activityDescription, domain.CreditsUsed{
			CreditsUsed:      amount,
			RemainingCredits: account.TotalCredits - account.UsedCredits,
		})
		if err != nil {
			return err
		}

		summary = account.Summary()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientCredits) {
			s.metrics.DebitRejected("insufficient_credits")
			log.Info("debit refused",
				slog.String("user_id", userID.String()),
				slog.Int("requested", amount),
				slog.String("reason", err.Error()))
			return domain.CreditSummary{}, err
		}
		log.Error("failed to debit credits",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("amount", amount))
		return domain.CreditSummary{}, NewServiceError("Debit", "failed to debit credits", err)
	}

	s.metrics.CreditsDebited(usageType, amount)
	log.Info("credits debited",
		slog.String("user_id", userID.String()),
		slog.String("type", string(usageType)),
		slog.Int("amount", amount),
		slog.Int("remaining", summary.RemainingCredits))

	return summary, nil
}

func (s *creditServiceImpl) Reset(ctx context.Context, userID uuid.UUID) (domain.CreditSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var summary domain.CreditSummary
	err := s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		account, err := s.loadOrCreate(ctx, tx, userID)
		if err != nil {
			return err
		}

		account.UsedCredits = 0
		account.ResetDate = s.now().Add(s.settings.ResetWindow)
		if err := tx.Accounts.Update(ctx, account); err != nil {
			return fmt.Errorf("failed to update credit account: %w", err)
		}

		usage, err := domain.NewCreditUsage(userID, domain.CreditUsageReset, 0, ResetDescription)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		usage.CreatedAt = s.now()
		if err := tx.Usage.Create(ctx, usage); err != nil {
			return fmt.Errorf("failed to record credit reset: %w", err)
		}

		_, err = s.activity.Log(ctx, tx.Activities, userID, ResetDescription, domain.CreditsReset{
			TotalCredits: account.TotalCredits,
			ResetDate:    account.ResetDate,
		})
		if err != nil {
			return err
		}

		summary = account.Summary()
		return nil
	})
	if err != nil {
		log.Error("failed to reset credits",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return domain.CreditSummary{}, NewServiceError("Reset", "failed to reset credits", err)
	}

	s.metrics.CreditsReset()
	log.Info("credits reset",
		slog.String("user_id", userID.String()),
		slog.Time("reset_date", summary.ResetDate))

	return summary, nil
}

func (s *creditServiceImpl) UsageBreakdown(ctx context.Context, userID uuid.UUID) ([]domain.CreditUsageStat, error) {
	sums, err := s.repos.Usage.SumByType(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to sum credit usage",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("UsageBreakdown", "failed to sum credit usage", err)
	}

	return breakdown(sums), nil
}

// breakdown turns per-type sums into rows ordered by credits, largest first.
func breakdown(sums map[domain.CreditUsageType]int) []domain.CreditUsageStat {
	total := 0
	for _, credits := range sums {
		total += credits
	}
	if total == 0 {
		return []domain.CreditUsageStat{}
	}

	stats := make([]domain.CreditUsageStat, 0, len(sums))
	for usageType, credits := range sums {
		stats = append(stats, domain.CreditUsageStat{
			Type:       usageType,
			Credits:    credits,
			Percentage: int(math.Round(float64(credits) / float64(total) * 100)),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Credits != stats[j].Credits {
			return stats[i].Credits > stats[j].Credits
		}
		return stats[i].Type < stats[j].Type
	})

	return stats
}

func (s *creditServiceImpl) Remaining(ctx context.Context, userID uuid.UUID) (int, error) {
	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	return account.Remaining(), nil
}

func (s *creditServiceImpl) ListDueAccounts(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	ids, err := s.repos.Accounts.ListDue(ctx, now, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list due credit accounts",
			slog.String("error", err.Error()))
		return nil, NewServiceError("ListDueAccounts", "failed to list due accounts", err)
	}
	return ids, nil
}
