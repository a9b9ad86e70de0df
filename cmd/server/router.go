package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/New-Magic-Tech/interlude-backend/internal/api"
	apiMiddleware "github.com/New-Magic-Tech/interlude-backend/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	accountHandler := api.NewAccountHandler(app.accounts)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokens)

	r.Route("/api/users", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/signup", accountHandler.Signup)
		r.Post("/signin", accountHandler.Signin)

		// Document endpoints (token required)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/{uid}", accountHandler.GetDocument)
			r.Patch("/{uid}", accountHandler.UpdateField)
			r.Post("/{uid}/push", accountHandler.AppendField)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
