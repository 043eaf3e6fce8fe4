package session

import "errors"

// Session errors. Anything else returned by a Store is a transient
// backend failure and propagates to the caller unchanged.
var (
	// ErrInvalidToken is returned when no session matches a presented
	// token: unknown, malformed, or already revoked.
	ErrInvalidToken = errors.New("session: invalid token")

	// ErrExpired is returned when a session exists but its expiration
	// has passed.
	ErrExpired = errors.New("session: expired")

	// ErrNotFound is returned when an operation targets a session id
	// that does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrConflict is returned by a store when a session id or token
	// already exists. The manager handles it by regenerating; callers
	// of the manager never see it.
	ErrConflict = errors.New("session: id or token already exists")
)
