package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/store"
)

// resolveApplication loads an application and checks that actor owns it.
// Mutating operations call it with transaction-bound repositories before any write.
func resolveApplication(
	ctx context.Context,
	repos *Repositories,
	applicationID, actor uuid.UUID,
) (*domain.Application, error) {
	app, err := repos.Applications.GetByID(ctx, applicationID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: application %s", ErrNotFound, applicationID)
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	if app.UserID != actor {
		return nil, fmt.Errorf("%w: application %s", ErrForbidden, applicationID)
	}

	return app, nil
}

// resolveDocument loads a document and authorizes it through its owning application.
func resolveDocument(
	ctx context.Context,
	repos *Repositories,
	documentID, actor uuid.UUID,
) (*domain.ApplicationDocument, *domain.Application, error) {
	doc, err := repos.Documents.GetByID(ctx, documentID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
		}
		return nil, nil, fmt.Errorf("failed to load document: %w", err)
	}

	app, err := resolveApplication(ctx, repos, doc.ApplicationID, actor)
	if err != nil {
		return nil, nil, err
	}

	return doc, app, nil
}
