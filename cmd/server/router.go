package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gradaid/gradaid-api/internal/api"
	apiMiddleware "github.com/gradaid/gradaid-api/internal/api/middleware"
	"github.com/gradaid/gradaid-api/internal/api/shared"
)

const healthTimeout = 2 * time.Second

// setupRouter creates the router with every route and middleware registered.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(app.metrics.InstrumentHandler)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	applicationHandler := api.NewApplicationHandler(app.applicationService, app.documentService, app.logger)
	documentHandler := api.NewDocumentHandler(app.documentService, app.logger)
	generationHandler := api.NewGenerationHandler(
		app.applicationService,
		app.documentService,
		app.creditService,
		app.generator,
		app.config.Credits.GenerationCost,
		app.logger,
	)
	creditHandler := api.NewCreditHandler(app.creditService, app.logger)
	activityHandler := api.NewActivityHandler(app.activityService, app.dashboardService, app.logger)
	internalHandler := api.NewInternalHandler(
		app.userService,
		app.creditService,
		app.jwtService,
		app.config.Auth.TokenLifetime,
		app.logger,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/applications", applicationHandler.CreateApplication)
		r.Get("/applications", applicationHandler.ListApplications)
		r.Get("/applications/{id}", applicationHandler.GetApplication)
		r.Patch("/applications/{id}/status", applicationHandler.UpdateApplicationStatus)
		r.Delete("/applications/{id}", applicationHandler.DeleteApplication)
		r.Post("/applications/{id}/documents", applicationHandler.CreateDocument)

		r.Get("/documents/{id}", documentHandler.GetDocument)
		r.Put("/documents/{id}/status", documentHandler.SetDocumentStatus)
		r.Put("/documents/{id}/content", documentHandler.SetDocumentContent)
		r.Put("/documents/{id}/recommender", documentHandler.SetRecommender)
		r.Get("/documents/{id}/recommender", documentHandler.GetRecommender)
		r.Post("/documents/{id}/generate", generationHandler.GenerateDocument)

		r.Get("/credits", creditHandler.GetCredits)
		r.Get("/credits/usage", creditHandler.GetUsage)
		r.Post("/credits/debit", creditHandler.Debit)

		r.Get("/activity", activityHandler.GetRecentActivity)
		r.Get("/activity/stats", activityHandler.GetActivityStats)
		r.Get("/dashboard", activityHandler.GetDashboard)
	})

	r.Route("/internal", func(r chi.Router) {
		r.Use(apiMiddleware.RequireAdmin(app.adminVerifier))

		r.Post("/users", internalHandler.ProvisionUser)
		r.Post("/credits/{userID}/reset", internalHandler.ResetCredits)
	})

	r.Get("/health", app.handleHealth)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}

// handleHealth reports whether the database is reachable.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
