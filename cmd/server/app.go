package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	apiMiddleware "github.com/gradaid/gradaid-api/internal/api/middleware"
	"github.com/gradaid/gradaid-api/internal/config"
	"github.com/gradaid/gradaid-api/internal/domain/lifecycle"
	"github.com/gradaid/gradaid-api/internal/generation"
	"github.com/gradaid/gradaid-api/internal/platform/gemini"
	"github.com/gradaid/gradaid-api/internal/platform/metrics"
	"github.com/gradaid/gradaid-api/internal/platform/postgres"
	"github.com/gradaid/gradaid-api/internal/scheduler"
	"github.com/gradaid/gradaid-api/internal/service"
	"github.com/gradaid/gradaid-api/internal/service/auth"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	metrics       *metrics.Metrics
	jwtService    auth.JWTService
	adminVerifier apiMiddleware.TokenVerifier
	generator     generation.Generator

	applicationService service.ApplicationService
	documentService    service.DocumentService
	creditService      service.CreditService
	activityService    service.ActivityService
	dashboardService   service.DashboardService
	userService        service.UserService

	resetScheduler *scheduler.ResetScheduler
}

// newApplication wires stores, services and collaborators on top of an open
// database connection.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime", cfg.Auth.TokenLifetime.String())

	app.adminVerifier, err = auth.NewAdminVerifier(cfg.Auth.AdminTokenHash)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize admin token verifier: %w", err)
	}

	if err := app.setupServices(logger, db); err != nil {
		return nil, err
	}

	app.generator, err = gemini.NewGeminiGenerator(ctx, logger.With("component", "llm_generator"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized successfully", "model", cfg.LLM.ModelName)

	app.resetScheduler, err = scheduler.NewResetScheduler(
		app.creditService,
		scheduler.ConfigFrom(cfg.Credits),
		logger,
		scheduler.WithRecorder(app.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credit reset scheduler: %w", err)
	}

	return app, nil
}

// setupServices builds the Postgres stores and the service layer on top of them.
func (app *application) setupServices(logger *slog.Logger, db *sql.DB) error {
	repos := &service.Repositories{
		DB:           db,
		Users:        postgres.NewPostgresUserStore(db, logger),
		Applications: postgres.NewPostgresApplicationStore(db, logger),
		Documents:    postgres.NewPostgresDocumentStore(db, logger),
		Accounts:     postgres.NewPostgresCreditAccountStore(db, logger),
		Usage:        postgres.NewPostgresCreditUsageStore(db, logger),
		Activities:   postgres.NewPostgresActivityStore(db, logger),
	}
	withMetrics := service.WithMetrics(app.metrics)
	rules := lifecycle.NewDefaultService()

	var err error
	app.activityService, err = service.NewActivityService(repos, logger, withMetrics)
	if err != nil {
		return fmt.Errorf("failed to create activity service: %w", err)
	}

	app.creditService, err = service.NewCreditService(repos, app.activityService, service.LedgerSettings{
		DefaultTotal: app.config.Credits.DefaultTotal,
		ResetWindow:  app.config.Credits.ResetWindow,
	}, logger, withMetrics)
	if err != nil {
		return fmt.Errorf("failed to create credit service: %w", err)
	}

	app.applicationService, err = service.NewApplicationService(repos, rules, app.activityService, logger, withMetrics)
	if err != nil {
		return fmt.Errorf("failed to create application service: %w", err)
	}

	app.documentService, err = service.NewDocumentService(repos, rules, app.activityService, logger, withMetrics)
	if err != nil {
		return fmt.Errorf("failed to create document service: %w", err)
	}

	app.userService, err = service.NewUserService(repos, app.creditService, logger, withMetrics)
	if err != nil {
		return fmt.Errorf("failed to create user service: %w", err)
	}

	app.dashboardService, err = service.NewDashboardService(repos, app.creditService, app.activityService, logger)
	if err != nil {
		return fmt.Errorf("failed to create dashboard service: %w", err)
	}

	logger.Info("Services initialized")
	return nil
}

// Run starts the credit reset scheduler and serves HTTP until ctx is done,
// then releases every resource.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if app.resetScheduler != nil {
		if err := app.resetScheduler.Start(); err != nil {
			return fmt.Errorf("failed to start credit reset scheduler: %w", err)
		}
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup stops background work and closes the database pool.
func (app *application) cleanup() {
	if app.resetScheduler != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		if err := app.resetScheduler.Stop(stopCtx); err != nil {
			app.logger.Error("Failed to stop credit reset scheduler", "error", err)
		}
		cancel()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
	app.logger.Info("Application resources released")
}
