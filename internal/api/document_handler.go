package api

import (
	"log/slog"
	"net/http"

	"github.com/gradaid/gradaid-api/internal/api/shared"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/service"
)

// DocumentHandler handles document-related HTTP requests
type DocumentHandler struct {
	documents service.DocumentService
	logger    *slog.Logger
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents service.DocumentService, logger *slog.Logger) *DocumentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DocumentHandler")
	}

	return &DocumentHandler{
		documents: documents,
		logger:    logger.With(slog.String("component", "document_handler")),
	}
}

// GetDocument handles GET /documents/{id} requests.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, documentID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	doc, err := h.documents.GetDocument(r.Context(), userID, documentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get document")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, doc)
}

// SetDocumentStatus handles PUT /documents/{id}/status requests.
// Progress is derived from the new status and the parent application is
// recomputed by the service.
func (h *DocumentHandler) SetDocumentStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, documentID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SetDocumentStatusRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	doc, err := h.documents.SetDocumentStatus(r.Context(), userID, documentID, domain.DocumentStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update document status")
		return
	}

	log.Debug("document status updated",
		slog.String("document_id", documentID.String()),
		slog.String("status", string(doc.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, doc)
}

// SetDocumentContent handles PUT /documents/{id}/content requests.
func (h *DocumentHandler) SetDocumentContent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, documentID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SetDocumentContentRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	doc, err := h.documents.SetDocumentContent(r.Context(), userID, documentID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update document content")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, doc)
}

// SetRecommender handles PUT /documents/{id}/recommender requests.
// Only letters of recommendation have a recommender.
func (h *DocumentHandler) SetRecommender(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, documentID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SetRecommenderRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	doc, err := h.documents.SetRecommender(r.Context(), userID, documentID, req.Name, req.Email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update recommender")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, doc)
}

// GetRecommender handles GET /documents/{id}/recommender requests.
func (h *DocumentHandler) GetRecommender(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, documentID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	recommender, err := h.documents.GetRecommender(r.Context(), userID, documentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get recommender")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, recommender)
}
