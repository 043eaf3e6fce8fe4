package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/budgetd/pkg/token"
)

// Default session configuration.
const (
	// DefaultTTL is the session lifetime: two weeks.
	DefaultTTL = 14 * 24 * time.Hour

	// DefaultTokenLength is the number of characters in a bearer token.
	DefaultTokenLength = 255
)

// createRetries bounds regenerate-on-conflict attempts in Issue.
// A collision at 255 characters of entropy is astronomically unlikely;
// the bound exists so a misbehaving store cannot loop forever.
const createRetries = 3

// Manager orchestrates the session lifecycle: issuance, validation,
// expiration policy, and revocation. It holds no locks of its own;
// store rows are the unit of atomicity.
type Manager struct {
	store   Store
	tokens  token.Generator
	logger  *slog.Logger
	now     func() time.Time
	refresh singleflight.Group

	ttl         time.Duration
	tokenLength int
	policy      ExpirationPolicy
}

// NewManager creates a session manager with the given store and token
// generator. The generator is an explicit dependency so tests can
// substitute a deterministic one.
func NewManager(store Store, tokens token.Generator, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		tokens:      tokens,
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
		ttl:         DefaultTTL,
		tokenLength: DefaultTokenLength,
		policy:      Sliding,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Issue creates a session for the given user and returns the bearer
// token. The user id is an opaque foreign key; whether the user exists
// is the caller's responsibility.
//
// On an id or token collision the session is regenerated and retried
// internally; callers only see entropy failures and backend errors.
func (m *Manager) Issue(ctx context.Context, userID string) (string, error) {
	var lastErr error

	for range createRetries {
		tok, err := m.tokens.NewToken(m.tokenLength)
		if err != nil {
			return "", fmt.Errorf("session: generate token: %w", err)
		}

		s := New(m.tokens.NewID(), tok, userID, m.now().Add(m.ttl))

		if err := m.store.Create(ctx, s); err != nil {
			if errors.Is(err, ErrConflict) {
				lastErr = err
				continue
			}
			return "", err
		}

		m.logger.InfoContext(ctx, "session issued",
			slog.String("session_id", s.ID),
			slog.String("user_id", userID),
			slog.Time("expires_at", s.ExpiresAt),
		)

		return tok, nil
	}

	return "", fmt.Errorf("session: issue: retries exhausted: %w", lastErr)
}

// Validate resolves a bearer token to the owning user id.
//
// Returns ErrInvalidToken if no session matches (unknown, malformed, or
// revoked) and ErrExpired if the session exists but is past its
// expiration; expired sessions are opportunistically deleted. Under the
// sliding policy a successful validation extends the expiration by the
// configured TTL; refresh failures are logged, not surfaced, so a
// transient write problem never rejects a valid credential.
func (m *Manager) Validate(ctx context.Context, tok string) (string, error) {
	s, err := m.store.GetByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	now := m.now()
	if s.IsExpired(now) {
		if err := m.store.Delete(ctx, s.ID); err != nil {
			m.logger.WarnContext(ctx, "failed to delete expired session",
				slog.String("session_id", s.ID),
				slog.Any("error", err),
			)
		}
		return "", ErrExpired
	}

	if m.policy == Sliding {
		m.slideExpiration(ctx, s, now.Add(m.ttl))
	}

	return s.UserID, nil
}

// slideExpiration advances the session's expiration, deduplicating
// concurrent refreshes of the same session via singleflight.
func (m *Manager) slideExpiration(ctx context.Context, s *Session, expiresAt time.Time) {
	_, err, _ := m.refresh.Do(s.ID, func() (any, error) {
		return nil, m.store.UpdateExpiration(ctx, s.ID, expiresAt)
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		// ErrNotFound means a concurrent revoke won; nothing to refresh.
		m.logger.WarnContext(ctx, "failed to slide session expiration",
			slog.String("session_id", s.ID),
			slog.Any("error", err),
		)
	}
}

// Revoke deletes the session matching the given token. Idempotent:
// revoking an unknown or already-revoked token is not an error.
func (m *Manager) Revoke(ctx context.Context, tok string) error {
	s, err := m.store.GetByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	if err := m.store.Delete(ctx, s.ID); err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "session revoked",
		slog.String("session_id", s.ID),
		slog.String("user_id", s.UserID),
	)

	return nil
}

// RevokeByID deletes a session by its id. Idempotent. Used for
// administrative revocation, e.g. a user dropping one device from
// their session list.
func (m *Manager) RevokeByID(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// RevokeAllForUser deletes every session belonging to the user and
// returns the number revoked. Used on password change or explicit
// "log out everywhere".
func (m *Manager) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	n, err := m.store.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	m.logger.InfoContext(ctx, "sessions revoked for user",
		slog.String("user_id", userID),
		slog.Int64("count", n),
	)

	return n, nil
}

// ListForUser returns all sessions belonging to the user.
func (m *Manager) ListForUser(ctx context.Context, userID string) ([]*Session, error) {
	return m.store.ListByUser(ctx, userID)
}

// SweepExpired removes all sessions past their expiration and returns
// the number removed. Invoked on a fixed cadence by the background
// sweeper; a failed sweep is non-fatal and retried on the next tick.
func (m *Manager) SweepExpired(ctx context.Context) (int64, error) {
	n, err := m.store.DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, err
	}

	if n > 0 {
		m.logger.InfoContext(ctx, "expired sessions swept",
			slog.Int64("count", n),
		)
	}

	return n, nil
}
