package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gradaid/gradaid-api/internal/api/shared"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/generation"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/redact"
	"github.com/gradaid/gradaid-api/internal/service"
)

// GenerationHandler drafts document content with the configured generator.
// Credits are debited before the generator is called and are not refunded
// when generation fails.
type GenerationHandler struct {
	applications service.ApplicationService
	documents    service.DocumentService
	credits      service.CreditService
	generator    generation.Generator
	cost         int
	logger       *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler. cost is the number of
// credits charged per generation.
func NewGenerationHandler(
	applications service.ApplicationService,
	documents service.DocumentService,
	credits service.CreditService,
	generator generation.Generator,
	cost int,
	logger *slog.Logger,
) *GenerationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerationHandler")
	}
	if cost <= 0 {
		// ALLOW-PANIC: Constructor enforcing valid configuration
		panic("generation cost must be positive")
	}

	return &GenerationHandler{
		applications: applications,
		documents:    documents,
		credits:      credits,
		generator:    generator,
		cost:         cost,
		logger:       logger.With(slog.String("component", "generation_handler")),
	}
}

// GenerateDocument handles POST /documents/{id}/generate requests.
//
// The request is validated before any credits are spent. A document that
// already has content is charged as a revision. On success the content is
// stored, a not yet started document moves to draft, and the AI suggestion
// counter is incremented.
func (h *GenerationHandler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	userID, documentID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	// The body is optional
	var req GenerateDocumentRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	doc, err := h.documents.GetDocument(ctx, userID, documentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get document")
		return
	}

	app, _, err := h.applications.GetApplication(ctx, userID, doc.ApplicationID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get application")
		return
	}

	genReq := generation.Request{
		DocumentType:   doc.Type,
		UniversityID:   app.UniversityID,
		ProgramID:      app.ProgramID,
		CurrentContent: doc.Content,
		Instructions:   req.Instructions,
	}
	if doc.RecommenderName != "" {
		genReq.Recommender = &domain.Recommender{Name: doc.RecommenderName, Email: doc.RecommenderEmail}
	}
	if err := genReq.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	usageType := generation.UsageType(doc.Type, doc.Content != "")
	credits, err := h.credits.Debit(ctx, userID, usageType, h.cost,
		fmt.Sprintf("Generated %s for %s", doc.Type.Title(), app.ProgramID))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to debit credits")
		return
	}

	content, err := h.generator.Generate(ctx, genReq)
	if err != nil {
		log.Error("document generation failed after debit",
			slog.String("document_id", documentID.String()),
			slog.String("usage_type", string(usageType)),
			slog.Int("credits", h.cost),
			slog.String("error", redact.Error(err)))
		HandleAPIError(w, r, err, "Failed to generate document")
		return
	}

	if _, err := h.documents.SetDocumentContent(ctx, userID, documentID, content); err != nil {
		HandleAPIError(w, r, err, "Failed to save generated content")
		return
	}

	if doc.Status == domain.DocumentStatusNotStarted {
		if _, err := h.documents.SetDocumentStatus(ctx, userID, documentID, domain.DocumentStatusDraft); err != nil {
			HandleAPIError(w, r, err, "Failed to update document status")
			return
		}
	}

	updated, err := h.documents.RecordAISuggestion(ctx, userID, documentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record AI suggestion")
		return
	}

	log.Info("document generated",
		slog.String("document_id", documentID.String()),
		slog.String("usage_type", string(usageType)),
		slog.Int("content_length", len(content)),
		slog.Int("remaining_credits", credits.RemainingCredits))
	shared.RespondWithJSON(w, r, http.StatusOK, GenerateDocumentResponse{Document: updated, Credits: credits})
}
