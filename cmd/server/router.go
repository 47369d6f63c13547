package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vocabloom/vocabloom-api/internal/api"
	apiMiddleware "github.com/vocabloom/vocabloom-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	wordHandler := api.NewWordHandler(app.wordService, app.logger)
	userWordHandler := api.NewUserWordHandler(app.userWordService, app.quizService, app.logger)
	quizHandler := api.NewQuizHandler(app.quizService, app.logger)
	progressHandler := api.NewProgressHandler(app.progressService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Health check endpoint
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte("OK"))
			if err != nil {
				app.logger.Error("Failed to write health check response", "error", err)
			}
		})

		// Word catalog endpoints
		r.Get("/words/level/{level}", wordHandler.ListByLevel)
		r.Get("/words/random", wordHandler.Random)
		r.Post("/words/fetch", wordHandler.Fetch)
		r.Get("/words/{id}", wordHandler.Get)

		// Learner endpoints
		r.Route("/learners/{learnerID}", func(r chi.Router) {
			r.Get("/words", userWordHandler.List)
			r.Post("/words", userWordHandler.Add)
			r.Get("/words/due", userWordHandler.ListDue)

			r.Get("/progress", progressHandler.Get)
			r.Post("/progress", progressHandler.Update)

			r.Post("/quiz", quizHandler.Generate)
			r.Post("/quiz/submit", quizHandler.Submit)
		})

		// Tracked word endpoints
		r.Put("/user-words/{id}/review", userWordHandler.Review)
		r.Delete("/user-words/{id}", userWordHandler.Remove)
	})

	return r
}
