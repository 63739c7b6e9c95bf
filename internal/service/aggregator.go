package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/domain/lifecycle"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
)

// statusAggregator derives an application's status from its documents.
// Both the document and application services run it inside their own transactions.
type statusAggregator struct {
	rules    lifecycle.Service
	activity ActivityService
	now      func() time.Time
	metrics  Metrics
	logger   *slog.Logger
}

// statusChange is an automatic application transition made by recompute.
type statusChange struct {
	applicationID uuid.UUID
	from, to      domain.ApplicationStatus
}

// recompute re-derives app.Status from its documents and persists a change.
// Terminal applications are returned untouched. The returned change is nil
// when the status stayed the same; callers pass it to committed once their
// transaction has committed.
func (a *statusAggregator) recompute(
	ctx context.Context,
	tx *Repositories,
	app *domain.Application,
) (domain.ApplicationStatus, *statusChange, error) {
	if app.Status.IsTerminal() {
		return app.Status, nil, nil
	}

	docs, err := tx.Documents.ListByApplication(ctx, app.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list documents: %w", err)
	}

	statuses := make([]domain.DocumentStatus, len(docs))
	for i, doc := range docs {
		statuses[i] = doc.Status
	}

	target, changed := a.rules.AggregateApplicationStatus(app.Status, statuses)
	if !changed {
		return target, nil, nil
	}

	old := app.Status
	app.Status = target
	app.LastUpdated = a.now()
	if err := tx.Applications.UpdateStatus(ctx, app); err != nil {
		return "", nil, fmt.Errorf("failed to update application status: %w", err)
	}

	_, err = a.activity.Log(ctx, tx.Activities, app.UserID,
		fmt.Sprintf("Application status automatically updated to %s", target),
		domain.ApplicationUpdated{ApplicationID: app.ID, OldStatus: old, NewStatus: target})
	if err != nil {
		return "", nil, err
	}

	return target, &statusChange{applicationID: app.ID, from: old, to: target}, nil
}

// committed counts and logs a change made by recompute. A nil change is a no-op.
func (a *statusAggregator) committed(ctx context.Context, change *statusChange) {
	if change == nil {
		return
	}

	a.metrics.ApplicationStatusChanged(change.from, change.to, true)
	logger.FromContextOrDefault(ctx, a.logger).Info("application status recomputed",
		slog.String("application_id", change.applicationID.String()),
		slog.String("old_status", string(change.from)),
		slog.String("new_status", string(change.to)))
}
