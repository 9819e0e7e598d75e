package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc Organizer, logger *slog.Logger, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(logger, authEnabled, token))

	r.Post("/organize", h.Organize)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
