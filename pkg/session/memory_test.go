package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/budgetd/pkg/session"
)

func TestMemory_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemory()
	expiresAt := time.Now().Add(time.Hour)

	require.NoError(t, store.Create(ctx, session.New("id-1", "tok-1", "u1", expiresAt)))

	t.Run("duplicate id", func(t *testing.T) {
		err := store.Create(ctx, session.New("id-1", "tok-other", "u1", expiresAt))
		require.ErrorIs(t, err, session.ErrConflict)
	})

	t.Run("duplicate token", func(t *testing.T) {
		err := store.Create(ctx, session.New("id-other", "tok-1", "u1", expiresAt))
		require.ErrorIs(t, err, session.ErrConflict)
	})
}

func TestMemory_GetByToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemory()

	require.NoError(t, store.Create(ctx, session.New("id-1", "tok-1", "u1", time.Now().Add(time.Hour))))

	s, err := store.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", s.ID)
	assert.Equal(t, "u1", s.UserID)

	_, err = store.GetByToken(ctx, "never-issued")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemory_GetByToken_ReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemory()

	require.NoError(t, store.Create(ctx, session.New("id-1", "tok-1", "u1", time.Now().Add(time.Hour))))

	s, err := store.GetByToken(ctx, "tok-1")
	require.NoError(t, err)

	// Mutating the returned session must not touch stored state.
	s.ExpiresAt = time.Now().Add(-time.Hour)

	again, err := store.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, again.IsExpired(time.Now()))
}

func TestMemory_UpdateExpiration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemory()
	later := time.Now().Add(48 * time.Hour)

	require.NoError(t, store.Create(ctx, session.New("id-1", "tok-1", "u1", time.Now().Add(time.Hour))))

	require.NoError(t, store.UpdateExpiration(ctx, "id-1", later))

	s, err := store.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.Equal(later))

	err = store.UpdateExpiration(ctx, "missing", later)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemory_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemory()

	require.NoError(t, store.Create(ctx, session.New("id-1", "tok-1", "u1", time.Now().Add(time.Hour))))

	require.NoError(t, store.Delete(ctx, "id-1"))

	_, err := store.GetByToken(ctx, "tok-1")
	require.ErrorIs(t, err, session.ErrNotFound)

	// Idempotent: deleting again is not an error.
	require.NoError(t, store.Delete(ctx, "id-1"))
}

func TestMemory_DeleteByUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemory()
	expiresAt := time.Now().Add(time.Hour)

	require.NoError(t, store.Create(ctx, session.New("id-1", "tok-1", "u1", expiresAt)))
	require.NoError(t, store.Create(ctx, session.New("id-2", "tok-2", "u1", expiresAt)))
	require.NoError(t, store.Create(ctx, session.New("id-3", "tok-3", "u2", expiresAt)))

	n, err := store.DeleteByUser(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// Other users are untouched.
	s, err := store.GetByToken(ctx, "tok-3")
	require.NoError(t, err)
	assert.Equal(t, "u2", s.UserID)
}

func TestMemory_DeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemory()
	now := time.Now()

	require.NoError(t, store.Create(ctx, session.New("id-1", "tok-1", "u1", now.Add(-time.Minute))))
	require.NoError(t, store.Create(ctx, session.New("id-2", "tok-2", "u1", now.Add(-time.Hour))))
	require.NoError(t, store.Create(ctx, session.New("id-3", "tok-3", "u2", now.Add(time.Hour))))

	n, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// Live session survives.
	_, err = store.GetByToken(ctx, "tok-3")
	require.NoError(t, err)

	// Second sweep in a row removes nothing.
	n, err = store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestMemory_ListByUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemory()
	expiresAt := time.Now().Add(time.Hour)

	require.NoError(t, store.Create(ctx, session.New("id-1", "tok-1", "u1", expiresAt)))
	require.NoError(t, store.Create(ctx, session.New("id-2", "tok-2", "u1", expiresAt)))

	sessions, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	sessions, err = store.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
