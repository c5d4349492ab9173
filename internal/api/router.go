package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/meetingmap/internal/web"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware())
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/", s.handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static", web.StaticHandler(s.webCfg.AssetsDir)))

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/system/metrics", s.handleSystemMetrics)
		r.With(s.rateLimitMiddleware).Post("/search", s.handleSearch)
		r.Get("/{locationID}", s.handleLocationDetail)
	})

	return r
}

// handleHealth reports whether the store is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.HealthCheck(r.Context()); err != nil {
		s.logger.ForRequest(r.Context()).Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "unavailable",
			"version": s.version,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
