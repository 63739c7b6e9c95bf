package api

import (
	"log/slog"
	"net/http"

	"github.com/gradaid/gradaid-api/internal/api/shared"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/service"
)

// ApplicationHandler handles application-related HTTP requests
type ApplicationHandler struct {
	applications service.ApplicationService
	documents    service.DocumentService
	logger       *slog.Logger
}

// NewApplicationHandler creates a new ApplicationHandler
func NewApplicationHandler(
	applications service.ApplicationService,
	documents service.DocumentService,
	logger *slog.Logger,
) *ApplicationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ApplicationHandler")
	}

	return &ApplicationHandler{
		applications: applications,
		documents:    documents,
		logger:       logger.With(slog.String("component", "application_handler")),
	}
}

// CreateApplication handles POST /applications requests.
// It creates an application together with its documents.
func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateApplicationRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	input := service.CreateApplicationInput{
		UniversityID: req.UniversityID,
		ProgramID:    req.ProgramID,
		Deadline:     req.Deadline,
		Priority:     domain.Priority(req.Priority),
		Notes:        req.Notes,
	}
	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}
	for _, t := range req.Documents {
		input.Documents = append(input.Documents, domain.DocumentType(t))
	}

	app, docs, err := h.applications.CreateApplication(r.Context(), userID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create application")
		return
	}

	log.Debug("application created",
		slog.String("user_id", userID.String()),
		slog.String("application_id", app.ID.String()),
		slog.Int("documents", len(docs)))
	shared.RespondWithJSON(w, r, http.StatusCreated, ApplicationResponse{Application: app, Documents: docs})
}

// ListApplications handles GET /applications requests.
func (h *ApplicationHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	summaries, err := h.applications.ListApplications(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list applications")
		return
	}
	if summaries == nil {
		summaries = []domain.ApplicationSummary{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ApplicationListResponse{Applications: summaries})
}

// GetApplication handles GET /applications/{id} requests.
func (h *ApplicationHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, applicationID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	app, docs, err := h.applications.GetApplication(r.Context(), userID, applicationID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get application")
		return
	}
	if docs == nil {
		docs = []*domain.ApplicationDocument{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ApplicationResponse{Application: app, Documents: docs})
}

// UpdateApplicationStatus handles PATCH /applications/{id}/status requests.
// Any status may be set explicitly, including the terminal ones.
func (h *ApplicationHandler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, applicationID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateApplicationStatusRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	app, err := h.applications.UpdateApplicationStatus(r.Context(), userID, applicationID,
		service.UpdateApplicationStatusInput{
			Status:         domain.ApplicationStatus(req.Status),
			Notes:          req.Notes,
			SubmissionDate: req.SubmissionDate,
		})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update application status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, app)
}

// DeleteApplication handles DELETE /applications/{id} requests.
func (h *ApplicationHandler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, applicationID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.applications.DeleteApplication(r.Context(), userID, applicationID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete application")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateDocument handles POST /applications/{id}/documents requests.
func (h *ApplicationHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, applicationID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CreateDocumentRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	doc, err := h.documents.CreateDocument(r.Context(), userID, applicationID, domain.DocumentType(req.Type))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create document")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, doc)
}
