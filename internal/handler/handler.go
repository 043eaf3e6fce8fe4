// Package handler implements budgetd's HTTP surface around the session
// core: login, logout, session listing, and administrative revocation.
//
// Credential verification is deliberately an interface here. User and
// password management live outside the session core; the handler only
// needs something that can turn an email/password pair into a user id.
package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/budgetd/pkg/session"
)

// ErrInvalidCredentials is returned by a CredentialVerifier when the
// email/password pair does not match a user.
var ErrInvalidCredentials = errors.New("handler: invalid credentials")

// CredentialVerifier resolves login credentials to a user id. The
// identity service implements it; tests stub it.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (string, error)
}

// Handler bundles the dependencies shared by all HTTP handlers.
type Handler struct {
	sessions *session.Manager
	verifier CredentialVerifier
	logger   *slog.Logger
}

// New creates the HTTP handler set.
func New(sessions *session.Manager, verifier CredentialVerifier, log *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		verifier: verifier,
		logger:   log,
	}
}
