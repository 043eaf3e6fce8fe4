package session

import "time"

// Session binds an opaque bearer token to a user identity for a bounded
// time window. ID, UserID, and Token never change after creation;
// ExpiresAt is the one mutable field and advances only through
// Store.UpdateExpiration.
type Session struct {
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	ID     string `json:"id"`      // primary key, used for administrative revocation
	UserID string `json:"user_id"` // owning user; opaque foreign key, never validated here
	Token  string `json:"token"`   // high-entropy bearer credential, unique across sessions
}

// New creates a session. There is no zero-value constructor: a session
// always carries an id, token, and user id from the moment it exists.
func New(id, tok, userID string, expiresAt time.Time) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		Token:     tok,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
}

// IsExpired reports whether the session is past its expiration at the
// given instant. A session is valid strictly before ExpiresAt.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
