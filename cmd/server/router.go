package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mindcraftr/mindcraftr-api/internal/api"
	apiMiddleware "github.com/mindcraftr/mindcraftr-api/internal/api/middleware"
	"github.com/mindcraftr/mindcraftr-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// The frontend is served from arbitrary dev origins; the API carries
	// no credentials, so a wide-open CORS policy is acceptable here.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	dashboardHandler := api.NewDashboardHandler(app.resultStore, app.topicStore, app.logger)
	topicHandler := api.NewTopicHandler(app.topicStore, app.flashcardStore, app.logger)
	profileHandler := api.NewProfileHandler(app.resultStore, app.masteryStore, app.logger)
	presetHandler := api.NewPresetHandler()
	testHandler := api.NewTestHandler(
		app.generationService,
		app.gradingService,
		app.resultStore,
		app.logger,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard/stats", dashboardHandler.GetStats)
		r.Get("/dashboard/recommendations", dashboardHandler.GetRecommendations)

		r.Get("/topics/{id}/details", topicHandler.GetDetails)
		r.Get("/flashcards", topicHandler.ListFlashcards)

		r.Get("/profile/stats", profileHandler.GetStats)
		r.Get("/profile/mastery", profileHandler.GetMastery)

		r.Get("/presets", presetHandler.List)

		r.Post("/tests/generate", testHandler.GenerateTest)
		r.Post("/tests/submit", testHandler.SubmitTest)
		r.Get("/tests/results/{id}", testHandler.GetResult)
	})

	// Service banner, kept for frontend connectivity checks.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		shared.RespondWithJSON(w, req, http.StatusOK, map[string]string{
			"message": "MindCraftr API is running!",
			"version": "1.0.0",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
