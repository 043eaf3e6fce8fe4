package session

import (
	"context"
	"time"
)

// Store defines the persistence contract for sessions: a durable
// mapping from token to session and from user id to the set of that
// user's sessions.
//
// Implementations must provide atomic single-row operations and enforce
// token uniqueness on the insertion path; no multi-row transaction is
// required, since each session is an independent unit. Transient
// backend failures are returned as-is.
type Store interface {
	// Create persists a new session.
	// Returns ErrConflict if the id or token already exists.
	Create(ctx context.Context, s *Session) error

	// GetByToken retrieves a session by its bearer token.
	// Returns ErrNotFound if no session matches, expired or not.
	GetByToken(ctx context.Context, token string) (*Session, error)

	// ListByUser returns all sessions for a user, in no particular order.
	ListByUser(ctx context.Context, userID string) ([]*Session, error)

	// UpdateExpiration advances a session's expiration.
	// Returns ErrNotFound if the id does not exist.
	UpdateExpiration(ctx context.Context, id string, expiresAt time.Time) error

	// Delete removes a session by id. Deleting a non-existent id is not
	// an error.
	Delete(ctx context.Context, id string) error

	// DeleteByUser removes all sessions for a user and returns the
	// number removed. Used for "log out everywhere".
	DeleteByUser(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes all sessions expired as of now and returns
	// the number removed. Safe to run concurrently with Create
	// and GetByToken: expiration is monotonic, so a row cannot
	// un-expire.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
