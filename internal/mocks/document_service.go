package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/service"
)

// MockDocumentService implements service.DocumentService for testing.
// Methods without a configured function return zero values.
type MockDocumentService struct {
	CreateDocumentFn func(
		ctx context.Context,
		actor, applicationID uuid.UUID,
		docType domain.DocumentType,
	) (*domain.ApplicationDocument, error)

	SetDocumentStatusFn func(
		ctx context.Context,
		actor, documentID uuid.UUID,
		status domain.DocumentStatus,
	) (*domain.ApplicationDocument, error)

	SetDocumentContentFn func(
		ctx context.Context,
		actor, documentID uuid.UUID,
		content string,
	) (*domain.ApplicationDocument, error)

	SetRecommenderFn func(
		ctx context.Context,
		actor, documentID uuid.UUID,
		name, email string,
	) (*domain.ApplicationDocument, error)

	GetRecommenderFn func(ctx context.Context, actor, documentID uuid.UUID) (*domain.Recommender, error)

	GetDocumentFn func(ctx context.Context, actor, documentID uuid.UUID) (*domain.ApplicationDocument, error)

	RecordAISuggestionFn func(ctx context.Context, actor, documentID uuid.UUID) (*domain.ApplicationDocument, error)
}

var _ service.DocumentService = (*MockDocumentService)(nil)

// CreateDocument implements service.DocumentService
func (m *MockDocumentService) CreateDocument(
	ctx context.Context,
	actor, applicationID uuid.UUID,
	docType domain.DocumentType,
) (*domain.ApplicationDocument, error) {
	if m.CreateDocumentFn != nil {
		return m.CreateDocumentFn(ctx, actor, applicationID, docType)
	}
	return nil, nil
}

// SetDocumentStatus implements service.DocumentService
func (m *MockDocumentService) SetDocumentStatus(
	ctx context.Context,
	actor, documentID uuid.UUID,
	status domain.DocumentStatus,
) (*domain.ApplicationDocument, error) {
	if m.SetDocumentStatusFn != nil {
		return m.SetDocumentStatusFn(ctx, actor, documentID, status)
	}
	return nil, nil
}

// SetDocumentContent implements service.DocumentService
func (m *MockDocumentService) SetDocumentContent(
	ctx context.Context,
	actor, documentID uuid.UUID,
	content string,
) (*domain.ApplicationDocument, error) {
	if m.SetDocumentContentFn != nil {
		return m.SetDocumentContentFn(ctx, actor, documentID, content)
	}
	return nil, nil
}

// SetRecommender implements service.DocumentService
func (m *MockDocumentService) SetRecommender(
	ctx context.Context,
	actor, documentID uuid.UUID,
	name, email string,
) (*domain.ApplicationDocument, error) {
	if m.SetRecommenderFn != nil {
		return m.SetRecommenderFn(ctx, actor, documentID, name, email)
	}
	return nil, nil
}

// GetRecommender implements service.DocumentService
func (m *MockDocumentService) GetRecommender(
	ctx context.Context,
	actor, documentID uuid.UUID,
) (*domain.Recommender, error) {
	if m.GetRecommenderFn != nil {
		return m.GetRecommenderFn(ctx, actor, documentID)
	}
	return nil, nil
}

// GetDocument implements service.DocumentService
func (m *MockDocumentService) GetDocument(
	ctx context.Context,
	actor, documentID uuid.UUID,
) (*domain.ApplicationDocument, error) {
	if m.GetDocumentFn != nil {
		return m.GetDocumentFn(ctx, actor, documentID)
	}
	return nil, nil
}

// RecordAISuggestion implements service.DocumentService
func (m *MockDocumentService) RecordAISuggestion(
	ctx context.Context,
	actor, documentID uuid.UUID,
) (*domain.ApplicationDocument, error) {
	if m.RecordAISuggestionFn != nil {
		return m.RecordAISuggestionFn(ctx, actor, documentID)
	}
	return nil, nil
}
