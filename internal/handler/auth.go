package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/budgetd/middlewares"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// RevokedResponse reports how many sessions a bulk revocation removed.
type RevokedResponse struct {
	Revoked int64 `json:"revoked"`
}

// Login verifies credentials and issues a session.
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	userID, err := h.verifier.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.ErrorContext(r.Context(), "credential verification failed",
			slog.Any("error", err),
		)
		respondError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	tok, err := h.sessions.Issue(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue session",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		respondError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{Token: tok})
}

// Logout revokes the session presented in the Authorization header.
// Idempotent: logging out twice succeeds both times.
// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	tok := middlewares.BearerToken(r)
	if tok == "" {
		respondError(w, http.StatusUnauthorized, "missing authentication token")
		return
	}

	if err := h.sessions.Revoke(r.Context(), tok); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to revoke session",
			slog.Any("error", err),
		)
		respondError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LogoutEverywhere revokes all sessions of the authenticated user, for
// "log out on all devices" and forced logout after a password change.
// POST /auth/logout_all
func (h *Handler) LogoutEverywhere(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.UserID(r.Context())

	n, err := h.sessions.RevokeAllForUser(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to revoke user sessions",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		respondError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	respondJSON(w, http.StatusOK, RevokedResponse{Revoked: n})
}
