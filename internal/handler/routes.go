package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/budgetd/middlewares"
)

// Routes assembles the budgetd router: public auth endpoints, the
// session-protected surface, and the health endpoint.
func Routes(h *Handler, checks ...HealthCheck) http.Handler {
	r := chi.NewRouter()

	r.Use(middlewares.RequestID())

	r.Get("/health", Health(checks...))

	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middlewares.Auth(h.sessions, h.logger))

		r.Post("/auth/logout_all", h.LogoutEverywhere)
		r.Get("/sessions", h.ListSessions)
		r.Delete("/sessions/{id}", h.RevokeSession)
	})

	return r
}
