package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/budgetd/middlewares"
)

// SessionResponse is a session as shown to its owner. The bearer token
// never leaves the server after issuance.
type SessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionListResponse wraps the session list.
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// ListSessions returns all sessions of the authenticated user.
// GET /sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.UserID(r.Context())

	sessions, err := h.sessions.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list sessions",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		respondError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionResponse{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}

	respondJSON(w, http.StatusOK, SessionListResponse{Sessions: out})
}

// RevokeSession revokes one of the authenticated user's sessions by id,
// e.g. dropping a single device from the session list.
// DELETE /sessions/{id}
func (h *Handler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.UserID(r.Context())
	id := chi.URLParam(r, "id")

	// Ownership check: a user may only revoke their own sessions.
	sessions, err := h.sessions.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list sessions",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		respondError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	owned := false
	for _, s := range sessions {
		if s.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	if err := h.sessions.RevokeByID(r.Context(), id); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to revoke session",
			slog.String("session_id", id),
			slog.Any("error", err),
		)
		respondError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
