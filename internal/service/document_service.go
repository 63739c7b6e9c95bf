package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/domain/lifecycle"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
)

// DocumentService manages application documents and keeps the owning
// application's status in step with them.
type DocumentService interface {
	// CreateDocument adds a not yet started document to an application.
	CreateDocument(
		ctx context.Context,
		actor, applicationID uuid.UUID,
		docType domain.DocumentType,
	) (*domain.ApplicationDocument, error)

	// SetDocumentStatus moves a document to any status, derives its progress and
	// recomputes the parent application.
	SetDocumentStatus(
		ctx context.Context,
		actor, documentID uuid.UUID,
		status domain.DocumentStatus,
	) (*domain.ApplicationDocument, error)

	// SetDocumentContent replaces the document body.
	SetDocumentContent(
		ctx context.Context,
		actor, documentID uuid.UUID,
		content string,
	) (*domain.ApplicationDocument, error)

	// SetRecommender records who writes a letter of recommendation.
	// Returns ErrInvalidArgument for any other document type.
	SetRecommender(
		ctx context.Context,
		actor, documentID uuid.UUID,
		name, email string,
	) (*domain.ApplicationDocument, error)

	// GetRecommender returns the recommender of a letter of recommendation.
	GetRecommender(ctx context.Context, actor, documentID uuid.UUID) (*domain.Recommender, error)

	// GetDocument returns a document owned by actor.
	GetDocument(ctx context.Context, actor, documentID uuid.UUID) (*domain.ApplicationDocument, error)

	// RecordAISuggestion counts one accepted AI generation against the document
	// and logs it.
	RecordAISuggestion(ctx context.Context, actor, documentID uuid.UUID) (*domain.ApplicationDocument, error)
}

type documentServiceImpl struct {
	repos      *Repositories
	rules      lifecycle.Service
	activity   ActivityService
	aggregator *statusAggregator
	validate   *validator.Validate
	now        func() time.Time
	metrics    Metrics
	logger     *slog.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	repos *Repositories,
	rules lifecycle.Service,
	activity ActivityService,
	logger *slog.Logger,
	opts ...Option,
) (DocumentService, error) {
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
	logger = logger.With(slog.String("component", "document_service"))
	return &documentServiceImpl{
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
		validate: validator.New(),
		now:      o.now,
		metrics:  o.metrics,
		logger:   logger,
	}, nil
}

func (s *documentServiceImpl) CreateDocument(
	ctx context.Context,
	actor, applicationID uuid.UUID,
	docType domain.DocumentType,
) (*domain.ApplicationDocument, error) {
	if !docType.Valid() {
		return nil, invalidArgument("unknown document type %q", docType)
	}

	var (
		doc    *domain.ApplicationDocument
		change *statusChange
	)
	err := s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		app, err := resolveApplication(ctx, tx, applicationID, actor)
		if err != nil {
			return err
		}

		doc, err = createDocumentInTx(ctx, tx, s.activity, s.now(), app, docType)
		if err != nil {
			return err
		}

		_, change, err = s.aggregator.recompute(ctx, tx, app)
		return err
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "CreateDocument", "failed to create document", err,
			slog.String("application_id", applicationID.String()))
	}

	s.aggregator.committed(ctx, change)
	return doc, nil
}

// createDocumentInTx inserts a document and logs its creation without
// recomputing the application.
func createDocumentInTx(
	ctx context.Context,
	tx *Repositories,
	activity ActivityService,
	now time.Time,
	app *domain.Application,
	docType domain.DocumentType,
) (*domain.ApplicationDocument, error) {
	doc, err := domain.NewApplicationDocument(app.ID, app.UserID, docType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	doc.LastEdited = now

	if err := tx.Documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	_, err = activity.Log(ctx, tx.Activities, app.UserID,
		fmt.Sprintf("Created %s", doc.Title),
		domain.DocumentCreated{DocumentID: doc.ID, ApplicationID: app.ID, DocumentType: docType})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (s *documentServiceImpl) SetDocumentStatus(
	ctx context.Context,
	actor, documentID uuid.UUID,
	status domain.DocumentStatus,
) (*domain.ApplicationDocument, error) {
	newProgress, err := s.rules.ProgressOf(status)
	if err != nil {
		return nil, invalidArgument("unknown document status %q", status)
	}

	var (
		doc       *domain.ApplicationDocument
		oldStatus domain.DocumentStatus
		change    *statusChange
	)
	err = s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		var (
			app *domain.Application
			err error
		)
		doc, app, err = resolveDocument(ctx, tx, documentID, actor)
		if err != nil {
			return err
		}

		oldStatus = doc.Status
		oldProgress := doc.Progress
		if err := s.rules.CanTransition(oldStatus, status); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}

		doc.Status = status
		doc.Progress = newProgress
		doc.LastEdited = s.now()
		if err := tx.Documents.Update(ctx, doc); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}

		// The two checks are independent: progress can change without a status
		// change when the progress table differs from the one the row was written with.
		if oldStatus != status {
			_, err := s.activity.Log(ctx, tx.Activities, doc.UserID,
				fmt.Sprintf("Document status updated to %s", status),
				domain.DocumentStatusChanged{DocumentID: doc.ID, OldStatus: oldStatus, NewStatus: status})
			if err != nil {
				return err
			}
		}
		if oldProgress != newProgress {
			_, err := s.activity.Log(ctx, tx.Activities, doc.UserID,
				fmt.Sprintf("Document progress updated from %d%% to %d%%", oldProgress, newProgress),
				domain.DocumentProgressChanged{DocumentID: doc.ID, OldProgress: oldProgress, NewProgress: newProgress})
			if err != nil {
				return err
			}
		}

		_, change, err = s.aggregator.recompute(ctx, tx, app)
		return err
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "SetDocumentStatus", "failed to update document status", err,
			slog.String("document_id", documentID.String()))
	}

	if oldStatus != status {
		s.metrics.DocumentStatusChanged(oldStatus, status)
	}
	s.aggregator.committed(ctx, change)
	logger.FromContextOrDefault(ctx, s.logger).Info("document status updated",
		slog.String("document_id", documentID.String()),
		slog.String("old_status", string(oldStatus)),
		slog.String("new_status", string(status)))

	return doc, nil
}

func (s *documentServiceImpl) SetDocumentContent(
	ctx context.Context,
	actor, documentID uuid.UUID,
	content string,
) (*domain.ApplicationDocument, error) {
	var doc *domain.ApplicationDocument
	err := s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		var err error
		doc, _, err = resolveDocument(ctx, tx, documentID, actor)
		if err != nil {
			return err
		}

		doc.Content = content
		doc.LastEdited = s.now()
		if err := tx.Documents.Update(ctx, doc); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}

		_, err = s.activity.Log(ctx, tx.Activities, doc.UserID, "Document content updated",
			domain.DocumentContentUpdated{DocumentID: doc.ID, ContentLength: len(content)})
		return err
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "SetDocumentContent", "failed to update document content", err,
			slog.String("document_id", documentID.String()))
	}

	return doc, nil
}

func (s *documentServiceImpl) SetRecommender(
	ctx context.Context,
	actor, documentID uuid.UUID,
	name, email string,
) (*domain.ApplicationDocument, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, invalidArgument("recommender name is required")
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, invalidArgument("recommender email %q is not a valid address", email)
	}

	var doc *domain.ApplicationDocument
	err := s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		var err error
		doc, _, err = resolveDocument(ctx, tx, documentID, actor)
		if err != nil {
			return err
		}
		if !doc.IsRecommendationLetter() {
			return invalidArgument("cannot set a recommender on a %s document", doc.Type)
		}

		doc.RecommenderName = name
		doc.RecommenderEmail = email
		doc.LastEdited = s.now()
		if err := tx.Documents.Update(ctx, doc); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}

		_, err = s.activity.Log(ctx, tx.Activities, doc.UserID,
			fmt.Sprintf("Recommender updated to %s", name),
			domain.RecommenderUpdated{DocumentID: doc.ID})
		return err
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "SetRecommender", "failed to update recommender", err,
			slog.String("document_id", documentID.String()))
	}

	return doc, nil
}

func (s *documentServiceImpl) GetRecommender(
	ctx context.Context,
	actor, documentID uuid.UUID,
) (*domain.Recommender, error) {
	doc, err := s.GetDocument(ctx, actor, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.IsRecommendationLetter() {
		return nil, invalidArgument("a %s document has no recommender", doc.Type)
	}
	return &domain.Recommender{Name: doc.RecommenderName, Email: doc.RecommenderEmail}, nil
}

func (s *documentServiceImpl) GetDocument(
	ctx context.Context,
	actor, documentID uuid.UUID,
) (*domain.ApplicationDocument, error) {
	doc, _, err := resolveDocument(ctx, s.repos, documentID, actor)
	if err != nil {
		return nil, fail(ctx, s.logger, "GetDocument", "failed to load document", err,
			slog.String("document_id", documentID.String()))
	}
	return doc, nil
}

func (s *documentServiceImpl) RecordAISuggestion(
	ctx context.Context,
	actor, documentID uuid.UUID,
) (*domain.ApplicationDocument, error) {
	var doc *domain.ApplicationDocument
	err := s.repos.InTx(ctx, func(ctx context.Context, tx *Repositories) error {
		var err error
		doc, _, err = resolveDocument(ctx, tx, documentID, actor)
		if err != nil {
			return err
		}

		doc.AISuggestionsCount++
		if err := tx.Documents.Update(ctx, doc); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}

		_, err = s.activity.Log(ctx, tx.Activities, doc.UserID, "AI suggestion accepted",
			domain.AISuggestionRecorded{DocumentID: doc.ID, SuggestionsCount: doc.AISuggestionsCount})
		return err
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "RecordAISuggestion", "failed to record AI suggestion", err,
			slog.String("document_id", documentID.String()))
	}

	return doc, nil
}
