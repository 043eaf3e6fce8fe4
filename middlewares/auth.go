package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/budgetd/pkg/session"
)

// userIDKey is the context key for the authenticated user id.
type userIDKey struct{}

// Validator resolves a bearer token to a user id.
// *session.Manager satisfies it.
type Validator interface {
	Validate(ctx context.Context, token string) (string, error)
}

// Auth returns middleware that extracts a bearer token from the
// Authorization header, validates it, and stores the resolved user id
// in the request context. Requests without a valid session get 401;
// transient store failures get 503 so clients know to retry.
func Auth(sessions Validator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := BearerToken(r)
			if tok == "" {
				unauthorized(w, "missing authentication token")
				return
			}

			userID, err := sessions.Validate(r.Context(), tok)
			if err != nil {
				switch {
				case errors.Is(err, session.ErrExpired):
					unauthorized(w, "session expired")
				case errors.Is(err, session.ErrInvalidToken):
					unauthorized(w, "invalid token")
				default:
					log.ErrorContext(r.Context(), "session validation failed",
						slog.Any("error", err),
					)
					http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				}
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated user id from the context.
// Returns an empty string if the Auth middleware is not applied.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// UserIDExtractor is a logger.ContextExtractor that attaches the
// authenticated user id to log records.
func UserIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := UserID(ctx); id != "" {
		return slog.String("user_id", id), true
	}
	return slog.Attr{}, false
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
// Returns an empty string when the header is absent or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return header[len(prefix):]
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, msg, http.StatusUnauthorized)
}
