package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/squadpick/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	if s.MetricsHandler != nil {
		r.Handle("/metrics", s.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		if s.RequestTimeout > 0 {
			r.Use(timeoutMiddleware(s.RequestTimeout))
		}

		r.Route("/players", func(r chi.Router) {
			r.Get("/", s.handleListPlayers)
			r.Post("/", s.handleCreatePlayer)
			r.Post("/team-selection", s.handleTeamSelection)
			r.Get("/{id}", s.handleGetPlayer)
			r.Put("/{id}", s.handleUpdatePlayer)
			r.Delete("/{id}", s.handleDeletePlayer)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("Route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})
	return r
}
