package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/domain/lifecycle"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/store"
)

// DefaultDocumentSet is created with an application when the caller names no documents.
var DefaultDocumentSet = []domain.DocumentType{
	domain.DocumentTypeSOP,
	domain.DocumentTypeLOR,
	domain.DocumentTypeLOR,
}

// CreateApplicationInput describes a new application.
type CreateApplicationInput struct {
	UniversityID string
	ProgramID    string
	Deadline     time.Time
	Priority     domain.Priority
	Notes        string
	// Documents defaults to DefaultDocumentSet when empty.
	Documents []domain.DocumentType
}

// UpdateApplicationStatusInput is an explicit status change made by the owner.
type UpdateApplicationStatusInput struct {
	Status domain.ApplicationStatus
	// Notes replaces the application notes when set.
	Notes *string
	// SubmissionDate is only kept for the submitted status; it defaults to now.
	SubmissionDate *time.Time
}

// ApplicationService manages applications and their derived status.
type ApplicationService interface {
	// CreateApplication creates an application together with its documents.
	// Returns ErrConflict if the user already applied to the program.
	CreateApplication(
		ctx context.Context,
		actor uuid.UUID,
		input CreateApplicationInput,
	) (*domain.Application, []*domain.ApplicationDocument, error)

	// RecomputeApplicationStatus re-derives a non-terminal application's status
	// from its documents and returns the resulting status.
	RecomputeApplicationStatus(ctx context.Context, applicationID uuid.UUID) (domain.ApplicationStatus, error)

	// UpdateApplicationStatus sets any status, including the terminal ones.
	UpdateApplicationStatus(
		ctx context.Context,
		actor, applicationID uuid.UUID,
		input UpdateApplicationStatusInput,
	) (*domain.Application, error)

	// GetApplication returns an application owned by actor with its documents.
	GetApplication(
		ctx context.Context,
		actor, applicationID uuid.UUID,
	) (*domain.Application, []*domain.ApplicationDocument, error)

	// DeleteApplication removes an application and its documents.
	DeleteApplication(ctx context.Context, actor, applicationID uuid.UUID) error

	// ListApplications returns the actor's applications with document completion.
	ListApplications(ctx context.Context, actor uuid.UUID) ([]domain.ApplicationSummary, error)
}

type applicationServiceImpl struct {
	repos      *Repositories
	rules      lifecycle.Service
	activity   ActivityService
	aggregator *statusAggregator
	now        func() time.Time
	metrics    Metrics
	logger     *slog.Logger
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(
	repos *Repositories,
	rules lifecycle.Service,
	activity ActivityService,
	logger *slog.Logger,
	opts ...Option,
) (ApplicationService, error) {
	if err := repos.Validate(); err != nil {
		return nil, err
	}
	if rules == nil {
		return nil, errors.New("lifecycle service cannot be nil")
	}
	if activity == nil {
		return nil, errors.New("activity service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := buildOptions(opts)
	logger = logger.With(slog.String("component", "application_service"))
	return &applicationServiceImpl{
		repos:    repos,
		rules:    rules,
		activity: activity,
		aggregator: &statusAggregator{
			rules:    rules,
			activity: activity,
			now:      o.now,
			metrics:  o.metrics,
			logger:   logger,
		},
		now:     o.now,
		metrics: o.metrics,
		logger:  logger,
	}, nil
}

func (s *applicationServiceImpl) CreateApplication(
	ctx context.Context,
	actor uuid.UUID,
	input CreateApplicationInput,
) (*domain.Application, []*domain.ApplicationDocument, error) {
	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}
	docTypes := input.Documents
	if len(docTypes) == 0 {
		docTypes = DefaultDocumentSet
	}
	for _, t := range docTypes {
		if !t.Valid() {
			return nil, nil, invalidArgument("unknown document type %q", t)
		}
	}

	app, err := domain.NewApplication(
		actor,
		input.UniversityID,
		input.ProgramID,
		input.Deadline,
		input.Priority,
		input.Notes,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	app.CreatedAt = s.now()
	app.LastUpdated = app.CreatedAt

	var (
		docs   []*domain.ApplicationDocument
		change *statusChange
	)
	err = s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		_, err := tx.Applications.FindByProgram(ctx, actor, app.UniversityID, app.ProgramID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: already applied to program %s at %s", ErrConflict, app.ProgramID, app.UniversityID)
		case !store.IsNotFoundError(err):
			return fmt.Errorf("failed to check for an existing application: %w", err)
		}

		if err := tx.Applications.Create(ctx, app); err != nil {
			return fmt.Errorf("failed to insert application: %w", err)
		}

		_, err = s.activity.Log(ctx, tx.Activities, actor,
			fmt.Sprintf("Started application to %s", app.ProgramID),
			domain.ApplicationUpdated{ApplicationID: app.ID, NewStatus: app.Status})
		if err != nil {
			return err
		}

		docs = make([]*domain.ApplicationDocument, 0, len(docTypes))
		for _, t := range docTypes {
			doc, err := createDocumentInTx(ctx, tx, s.activity, s.now(), app, t)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}

		_, change, err = s.aggregator.recompute(ctx, tx, app)
		return err
	})
	if err != nil {
		return nil, nil, fail(ctx, s.logger, "CreateApplication", "failed to create application", err,
			slog.String("user_id", actor.String()),
			slog.String("program_id", input.ProgramID))
	}

	s.aggregator.committed(ctx, change)
	logger.FromContextOrDefault(ctx, s.logger).Info("application created",
		slog.String("application_id", app.ID.String()),
		slog.String("user_id", actor.String()),
		slog.Int("documents", len(docs)))

	return app, docs, nil
}

func (s *applicationServiceImpl) RecomputeApplicationStatus(
	ctx context.Context,
	applicationID uuid.UUID,
) (domain.ApplicationStatus, error) {
	var (
		status domain.ApplicationStatus
		change *statusChange
	)
	err := s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		app, err := tx.Applications.GetByID(ctx, applicationID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return fmt.Errorf("%w: application %s", ErrNotFound, applicationID)
			}
			return fmt.Errorf("failed to load application: %w", err)
		}

		status, change, err = s.aggregator.recompute(ctx, tx, app)
		return err
	})
	if err != nil {
		return "", fail(ctx, s.logger, "RecomputeApplicationStatus", "failed to recompute application status", err,
			slog.String("application_id", applicationID.String()))
	}

	s.aggregator.committed(ctx, change)
	return status, nil
}

func (s *applicationServiceImpl) UpdateApplicationStatus(
	ctx context.Context,
	actor, applicationID uuid.UUID,
	input UpdateApplicationStatusInput,
) (*domain.Application, error) {
	if !input.Status.Valid() {
		return nil, invalidArgument("unknown application status %q", input.Status)
	}

	var (
		app *domain.Application
		old domain.ApplicationStatus
	)
	err := s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		var err error
		app, err = resolveApplication(ctx, tx, applicationID, actor)
		if err != nil {
			return err
		}

		old = app.Status
		app.Status = input.Status
		app.LastUpdated = s.now()
		if input.Notes != nil {
			app.Notes = *input.Notes
		}

		app.SubmissionDate = nil
		if input.Status == domain.ApplicationStatusSubmitted {
			submitted := app.LastUpdated
			if input.SubmissionDate != nil {
				submitted = input.SubmissionDate.UTC()
			}
			app.SubmissionDate = &submitted
		}

		if err := tx.Applications.UpdateStatus(ctx, app); err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}

		_, err = s.activity.Log(ctx, tx.Activities, actor,
			fmt.Sprintf("Application status updated to %s", input.Status),
			domain.ApplicationUpdated{ApplicationID: app.ID, OldStatus: old, NewStatus: input.Status})
		return err
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "UpdateApplicationStatus", "failed to update application status", err,
			slog.String("application_id", applicationID.String()))
	}

	if old != input.Status {
		s.metrics.ApplicationStatusChanged(old, input.Status, false)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("application status updated",
		slog.String("application_id", applicationID.String()),
		slog.String("old_status", string(old)),
		slog.String("new_status", string(input.Status)))

	return app, nil
}

func (s *applicationServiceImpl) GetApplication(
	ctx context.Context,
	actor, applicationID uuid.UUID,
) (*domain.Application, []*domain.ApplicationDocument, error) {
	app, err := resolveApplication(ctx, s.repos, applicationID, actor)
	if err != nil {
		return nil, nil, fail(ctx, s.logger, "GetApplication", "failed to get application", err,
			slog.String("application_id", applicationID.String()))
	}

	docs, err := s.repos.Documents.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, nil, fail(ctx, s.logger, "GetApplication", "failed to list documents", err,
			slog.String("application_id", applicationID.String()))
	}

	return app, docs, nil
}

func (s *applicationServiceImpl) DeleteApplication(ctx context.Context, actor, applicationID uuid.UUID) error {
	err := s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		app, err := resolveApplication(ctx, tx, applicationID, actor)
		if err != nil {
			return err
		}

		if err := tx.Applications.Delete(ctx, app.ID); err != nil {
			return fmt.Errorf("failed to delete application: %w", err)
		}

		_, err = s.activity.Log(ctx, tx.Activities, actor, "Application deleted",
			domain.ApplicationUpdated{
				ApplicationID: app.ID,
				OldStatus:     app.Status,
				NewStatus:     domain.ApplicationStatusDeleted,
			})
		return err
	})
	if err != nil {
		return fail(ctx, s.logger, "DeleteApplication", "failed to delete application", err,
			slog.String("application_id", applicationID.String()))
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("application deleted",
		slog.String("application_id", applicationID.String()),
		slog.String("user_id", actor.String()))
	return nil
}

func (s *applicationServiceImpl) ListApplications(
	ctx context.Context,
	actor uuid.UUID,
) ([]domain.ApplicationSummary, error) {
	apps, err := s.repos.Applications.ListByUser(ctx, actor)
	if err != nil {
		return nil, fail(ctx, s.logger, "ListApplications", "failed to list applications", err,
			slog.String("user_id", actor.String()))
	}

	docs, err := s.repos.Documents.ListByUser(ctx, actor)
	if err != nil {
		return nil, fail(ctx, s.logger, "ListApplications", "failed to list documents", err,
			slog.String("user_id", actor.String()))
	}

	byApp := make(map[uuid.UUID][]domain.DocumentStatus, len(apps))
	for _, doc := range docs {
		byApp[doc.ApplicationID] = append(byApp[doc.ApplicationID], doc.Status)
	}

	summaries := make([]domain.ApplicationSummary, 0, len(apps))
	for _, app := range apps {
		complete, total, percent := s.rules.CompletionPercent(byApp[app.ID])
		summaries = append(summaries, domain.ApplicationSummary{
			Application:       *app,
			DocumentsComplete: complete,
			TotalDocuments:    total,
			Progress:          percent,
		})
	}

	return summaries, nil
}
