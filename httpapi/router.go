// Package httpapi exposes app sessions over HTTP for the mobile and web
// front ends. Every session response carries the raw snapshot and the view
// rendered from it.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mitra-credit/content"
	"mitra-credit/sessions"
)

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Backend          sessions.Backend
	Catalog          *content.Catalog
	Health           HealthService
	Metrics          *Metrics
	AllowedOrigins   []string
	AllowCredentials bool
}

// Handler serves the session endpoints.
type Handler struct {
	backend sessions.Backend
	catalog *content.Catalog
	logger  *slog.Logger
	metrics *Metrics
}

// NewRouter wires the HTTP routes exposed by the gateway.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	h := &Handler{
		backend: deps.Backend,
		catalog: deps.Catalog,
		logger:  logger,
		metrics: deps.Metrics,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger, deps.Metrics))
	r.Use(recoverMiddleware(logger))
	r.Use(securityHeadersMiddleware)
	if len(deps.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(newCORSPolicy(deps.AllowedOrigins, deps.AllowCredentials), deps.Metrics))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{"status": "ok"}
		if deps.Health != nil {
			if err := deps.Health.Check(ctx); err != nil {
				logger.Error("health check failed", "error", err)
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = err.Error()
			}
		}
		writeJSON(w, status, payload)
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/content", h.getContent)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.startSession)
			r.Get("/{id}", h.getSession)
			r.Post("/{id}/events", h.postEvent)
			r.Patch("/{id}/profile", h.patchProfile)
			r.Delete("/{id}", h.closeSession)
		})
	})
	return r
}
