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

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// System metrics (no auth required for basic monitoring)
		r.Get("/metrics", s.handleMetrics)

		// WebSocket upgrade. Browsers cannot attach Authorization headers
		// here; the single-use ticket from /auth/ws-ticket is the credential.
		r.Get("/ws", s.handleWebSocket)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// WS ticket requires authentication
			r.Post("/auth/ws-ticket", s.handleWSTicket)
			r.Get("/auth/me", s.handleMe)

			// Issue registry
			r.Route("/issues", func(r chi.Router) {
				r.Get("/", s.handleListIssues)
				r.Route("/{domain}/{issueID}", func(r chi.Router) {
					r.Get("/", s.handleGetIssue)
					r.Post("/ignore", s.handleIgnoreIssue)
					r.With(s.requireAdmin).Delete("/", s.handleDeleteIssue)
				})
			})

			// Device models. Device IDs are vendor URLs and arrive
			// URL-encoded as a single path segment.
			r.Route("/devices", func(r chi.Router) {
				r.Get("/", s.handleListDevices)
				r.Route("/{deviceID}", func(r chi.Router) {
					r.Get("/", s.handleGetDevice)
					r.Post("/command", s.handleDeviceCommand)
				})
			})

			// Typed service surface
			r.Get("/services", s.handleListServices)
			r.Post("/services/{domain}/{name}", s.handleCallService)

			// Repair flows
			r.Route("/repairs/flows", func(r chi.Router) {
				r.Post("/", s.handleStartFlow)
				r.Route("/{flowID}", func(r chi.Router) {
					r.Get("/", s.handleGetFlow)
					r.Post("/", s.handleSubmitFlow)
					r.Delete("/", s.handleAbortFlow)
				})
			})

			// Integration supervision
			r.Get("/integrations", s.handleListIntegrations)
			r.Post("/integrations/{instanceID}/retry", s.handleRetryIntegration)

			// Audit log (admin)
			r.With(s.requireAdmin).Get("/audit", s.handleListAudit)

			// User management
			r.Route("/users", func(r chi.Router) {
				r.With(s.requireAdmin).Get("/", s.handleListUsers)
				r.With(s.requireAdmin).Post("/", s.handleCreateUser)
				r.With(s.requireAdmin).Delete("/{userID}", s.handleDeleteUser)
				r.Put("/{userID}/password", s.handleChangePassword)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
