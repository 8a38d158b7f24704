package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/commands", s.handleExecuteCommand)

			r.Route("/schedules", func(r chi.Router) {
				r.Post("/", s.handleSetSchedule)
				r.Get("/{deviceID}", s.handleGetSchedule)
			})

			r.Route("/telemetry", func(r chi.Router) {
				r.Get("/", s.handleTelemetry)
				r.Get("/{deviceID}", s.handleTelemetryDevice)
			})

			r.Get("/status", s.handleStatus)

			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}
