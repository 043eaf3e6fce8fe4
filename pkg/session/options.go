package session

import (
	"log/slog"
	"time"
)

// ExpirationPolicy controls what Validate does with a session's
// expiration on success.
type ExpirationPolicy int

const (
	// Sliding extends the expiration horizon on every successful
	// validation. Better UX: active users stay logged in. Default.
	Sliding ExpirationPolicy = iota

	// FixedWindow leaves the expiration where issuance set it. Better
	// auditability: a session's lifetime is known at creation.
	FixedWindow
)

// Option configures the Manager.
type Option func(*Manager)

// WithTTL sets the session lifetime. Default: 14 days.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithTokenLength sets the bearer token length. Default: 255.
func WithTokenLength(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.tokenLength = n
		}
	}
}

// WithSlidingWindow makes Validate extend the expiration on success.
// This is the default policy.
func WithSlidingWindow() Option {
	return func(m *Manager) {
		m.policy = Sliding
	}
}

// WithFixedWindow makes Validate leave the expiration untouched.
func WithFixedWindow() Option {
	return func(m *Manager) {
		m.policy = FixedWindow
	}
}

// WithLogger sets the logger for session events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock substitutes the time source. Used by tests to control
// expiration without sleeping.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
