package session

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory Store guarded by a mutex. It backs tests and
// single-process development setups; production deployments use
// Postgres or Redis.
type Memory struct {
	byToken map[string]*Session
	byID    map[string]*Session
	mu      sync.Mutex
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byToken: make(map[string]*Session),
		byID:    make(map[string]*Session),
	}
}

// Create persists a new session.
// Returns ErrConflict if the id or token already exists.
func (m *Memory) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[s.ID]; ok {
		return ErrConflict
	}
	if _, ok := m.byToken[s.Token]; ok {
		return ErrConflict
	}

	// Copy so callers cannot mutate stored state in place.
	cp := *s
	m.byID[cp.ID] = &cp
	m.byToken[cp.Token] = &cp

	return nil
}

// GetByToken retrieves a session by its bearer token.
func (m *Memory) GetByToken(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *s
	return &cp, nil
}

// ListByUser returns all sessions for a user.
func (m *Memory) ListByUser(_ context.Context, userID string) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Session
	for _, s := range m.byID {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}

	return out, nil
}

// UpdateExpiration advances a session's expiration.
func (m *Memory) UpdateExpiration(_ context.Context, id string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}

	s.ExpiresAt = expiresAt

	return nil
}

// Delete removes a session by id. Idempotent.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remove(id)

	return nil
}

// DeleteByUser removes all sessions for a user.
func (m *Memory) DeleteByUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, s := range m.byID {
		if s.UserID == userID {
			m.remove(id)
			n++
		}
	}

	return n, nil
}

// DeleteExpired removes all sessions expired as of now.
func (m *Memory) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, s := range m.byID {
		if s.IsExpired(now) {
			m.remove(id)
			n++
		}
	}

	return n, nil
}

// remove deletes a session from both indexes. Caller must hold the mutex.
func (m *Memory) remove(id string) {
	s, ok := m.byID[id]
	if !ok {
		return
	}
	delete(m.byID, id)
	delete(m.byToken, s.Token)
}

var _ Store = (*Memory)(nil)
