package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/config"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/robfig/cron/v3"
)

// Ledger is the part of the credit service the sweep needs.
type Ledger interface {
	ListDueAccounts(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	Reset(ctx context.Context, userID uuid.UUID) (domain.CreditSummary, error)
}

// SweepRecorder receives one outcome per sweep.
type SweepRecorder interface {
	ResetSweep(outcome string)
}

// Sweep outcomes
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

// SweepResult summarizes one sweep.
type SweepResult struct {
	Due    int
	Reset  int
	Failed int
}

// Config holds the sweep settings.
type Config struct {
	// Schedule is a standard cron spec or descriptor such as "@hourly".
	Schedule string
	// BatchSize caps how many accounts are fetched per batch.
	BatchSize int
	// Workers is the number of concurrent resets. Defaults to 1.
	Workers int
}

// ConfigFrom builds a scheduler Config from the credit settings.
func ConfigFrom(cfg config.CreditsConfig) Config {
	return Config{
		Schedule:  cfg.ResetSchedule,
		BatchSize: cfg.ResetBatchSize,
		Workers:   cfg.ResetWorkers,
	}
}

// Option configures a ResetScheduler.
type Option func(*ResetScheduler)

// WithClock overrides the time source used to find due accounts.
func WithClock(now func() time.Time) Option {
	return func(s *ResetScheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecorder attaches a sweep outcome recorder.
func WithRecorder(r SweepRecorder) Option {
	return func(s *ResetScheduler) {
		if r != nil {
			s.recorder = r
		}
	}
}

// ResetScheduler periodically resets credit accounts whose reset date has passed.
type ResetScheduler struct {
	ledger   Ledger
	config   Config
	logger   *slog.Logger
	now      func() time.Time
	recorder SweepRecorder
	cron     *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewResetScheduler creates a scheduler. The cron spec is parsed eagerly so a
// bad schedule fails at startup.
func NewResetScheduler(ledger Ledger, cfg Config, logger *slog.Logger, opts ...Option) (*ResetScheduler, error) {
	if ledger == nil {
		return nil, errors.New("ledger cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.Workers <= 0 {
		logger.Warn("invalid worker count specified, using default",
			slog.Int("specified_count", cfg.Workers),
			slog.Int("default_count", 1))
		cfg.Workers = 1
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid reset schedule %q: %w", cfg.Schedule, err)
	}

	logger = logger.With(slog.String("component", "reset_scheduler"))
	ctx, cancel := context.WithCancel(context.Background())

	s := &ResetScheduler{
		ledger:   ledger,
		config:   cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		recorder: noopRecorder{},
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	cl := cronLogger{logger: logger}
	s.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	return s, nil
}

// Start registers the sweep and starts the cron loop.
func (s *ResetScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.config.Schedule, func() {
		if _, err := s.RunOnce(s.ctx); err != nil {
			s.logger.Error("credit reset sweep failed", slog.String("error", err.Error()))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule credit reset: %w", err)
	}

	s.cron.Start()
	s.logger.Info("credit reset scheduler started",
		slog.String("schedule", s.config.Schedule),
		slog.Int("workers", s.config.Workers))
	return nil
}

// Stop cancels any running sweep and waits for it to finish or for ctx to expire.
func (s *ResetScheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("credit reset scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("credit reset scheduler did not stop in time: %w", ctx.Err())
	}
}

// RunOnce resets every account that is currently due. Batches are fetched
// until one comes back short or a batch has failures, so accounts that keep
// failing are retried on the next sweep rather than in a tight loop.
func (s *ResetScheduler) RunOnce(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	now := s.now()

	for {
		if err := ctx.Err(); err != nil {
			s.record(result)
			return result, err
		}

		due, err := s.ledger.ListDueAccounts(ctx, now, s.config.BatchSize)
		if err != nil {
			s.recorder.ResetSweep(OutcomeFailed)
			return result, fmt.Errorf("failed to list due accounts: %w", err)
		}
		if len(due) == 0 {
			break
		}

		reset, failed := s.resetAll(ctx, due)
		result.Due += len(due)
		result.Reset += reset
		result.Failed += failed

		if len(due) < s.config.BatchSize || failed > 0 {
			break
		}
	}

	s.record(result)
	if result.Due > 0 {
		s.logger.Info("credit reset sweep finished",
			slog.Int("due", result.Due),
			slog.Int("reset", result.Reset),
			slog.Int("failed", result.Failed))
	}
	return result, nil
}

// resetAll fans the user IDs out to the configured number of workers.
func (s *ResetScheduler) resetAll(ctx context.Context, userIDs []uuid.UUID) (reset, failed int) {
	jobs := make(chan uuid.UUID)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	workers := s.config.Workers
	if workers > len(userIDs) {
		workers = len(userIDs)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for userID := range jobs {
				_, err := s.ledger.Reset(ctx, userID)

				mu.Lock()
				if err != nil {
					failed++
				} else {
					reset++
				}
				mu.Unlock()

				if err != nil {
					s.logger.Error("failed to reset credit account",
						slog.Int("worker_id", workerID),
						slog.String("user_id", userID.String()),
						slog.String("error", err.Error()))
				}
			}
		}(i)
	}

	for _, id := range userIDs {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	return reset, failed
}

func (s *ResetScheduler) record(result SweepResult) {
	switch {
	case result.Failed == 0:
		s.recorder.ResetSweep(OutcomeOK)
	case result.Reset > 0:
		s.recorder.ResetSweep(OutcomePartial)
	default:
		s.recorder.ResetSweep(OutcomeFailed)
	}
}

type noopRecorder struct{}

func (noopRecorder) ResetSweep(string) {}
