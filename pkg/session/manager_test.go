package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/budgetd/pkg/session"
)

// fakeGenerator produces deterministic ids and tokens. Tokens can be
// preloaded to force collisions.
type fakeGenerator struct {
	mu     sync.Mutex
	ids    int
	toks   int
	queued []string
}

func (g *fakeGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ids++
	return fmt.Sprintf("id-%06d", g.ids)
}

func (g *fakeGenerator) NewToken(_ int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queued) > 0 {
		tok := g.queued[0]
		g.queued = g.queued[1:]
		return tok, nil
	}
	g.toks++
	return fmt.Sprintf("tok-%06d", g.toks), nil
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestManager(t *testing.T, opts ...session.Option) (*session.Manager, *session.Memory, *fakeClock) {
	t.Helper()

	store := session.NewMemory()
	clock := newFakeClock()

	opts = append([]session.Option{session.WithClock(clock.Now)}, opts...)
	mgr := session.NewManager(store, &fakeGenerator{}, opts...)

	return mgr, store, clock
}

func TestManager_IssueAndValidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _, _ := newTestManager(t)

	tok, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := mgr.Validate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestManager_Validate_UnknownToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _, _ := newTestManager(t)

	_, err := mgr.Validate(ctx, "never-issued")
	require.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestManager_Validate_Expired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _, clock := newTestManager(t)

	tok, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)

	clock.Advance(15 * 24 * time.Hour)

	_, err = mgr.Validate(ctx, tok)
	require.ErrorIs(t, err, session.ErrExpired)

	// The expired record was opportunistically deleted, so a second
	// validation no longer distinguishes it from a token never issued.
	_, err = mgr.Validate(ctx, tok)
	require.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestManager_Validate_SlidingWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, store, clock := newTestManager(t)

	tok, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)

	// 10 days in: past the halfway mark, still valid.
	clock.Advance(10 * 24 * time.Hour)
	_, err = mgr.Validate(ctx, tok)
	require.NoError(t, err)

	// The validation slid the horizon to now+14d.
	s, err := store.GetByToken(ctx, tok)
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.Equal(clock.Now().Add(14*24*time.Hour)))

	// Another 10 days would have killed a fixed-window session.
	clock.Advance(10 * 24 * time.Hour)
	userID, err := mgr.Validate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestManager_Validate_FixedWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, store, clock := newTestManager(t, session.WithFixedWindow())

	tok, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)

	issued, err := store.GetByToken(ctx, tok)
	require.NoError(t, err)

	clock.Advance(10 * 24 * time.Hour)
	_, err = mgr.Validate(ctx, tok)
	require.NoError(t, err)

	// Expiration stays where issuance set it.
	s, err := store.GetByToken(ctx, tok)
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.Equal(issued.ExpiresAt))

	clock.Advance(5 * 24 * time.Hour)
	_, err = mgr.Validate(ctx, tok)
	require.ErrorIs(t, err, session.ErrExpired)
}

func TestManager_Revoke(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _, _ := newTestManager(t)

	tok, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, mgr.Revoke(ctx, tok))

	// Revoked, not expired: the record is gone entirely.
	_, err = mgr.Validate(ctx, tok)
	require.ErrorIs(t, err, session.ErrInvalidToken)

	// Idempotent.
	require.NoError(t, mgr.Revoke(ctx, tok))
	require.NoError(t, mgr.Revoke(ctx, "never-issued"))
}

func TestManager_RevokeAllForUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _, _ := newTestManager(t)

	t1, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)
	t2, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)

	other, err := mgr.Issue(ctx, "u2")
	require.NoError(t, err)

	n, err := mgr.RevokeAllForUser(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = mgr.Validate(ctx, t1)
	require.ErrorIs(t, err, session.ErrInvalidToken)
	_, err = mgr.Validate(ctx, t2)
	require.ErrorIs(t, err, session.ErrInvalidToken)

	// Unrelated user keeps their session.
	userID, err := mgr.Validate(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, "u2", userID)
}

func TestManager_Issue_RetriesOnConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemory()

	// An existing session already holds the token the generator will
	// produce first.
	require.NoError(t, store.Create(ctx,
		session.New("existing", "collide", "u9", time.Now().Add(time.Hour))))

	gen := &fakeGenerator{queued: []string{"collide"}}
	mgr := session.NewManager(store, gen)

	tok, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)
	require.NotEqual(t, "collide", tok)

	userID, err := mgr.Validate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestManager_SweepExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, store, clock := newTestManager(t)

	stale, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)

	clock.Advance(15 * 24 * time.Hour)

	live, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)

	n, err := mgr.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = mgr.Validate(ctx, stale)
	require.ErrorIs(t, err, session.ErrInvalidToken)

	userID, err := mgr.Validate(ctx, live)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	// A second sweep removes nothing.
	n, err = mgr.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	_, err = store.GetByToken(ctx, live)
	require.NoError(t, err)
}

func TestManager_ListForUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _, _ := newTestManager(t)

	_, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)
	_, err = mgr.Issue(ctx, "u1")
	require.NoError(t, err)

	sessions, err := mgr.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestManager_ConcurrentValidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _, _ := newTestManager(t)

	tok, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID, err := mgr.Validate(ctx, tok)
			assert.NoError(t, err)
			assert.Equal(t, "u1", userID)
		}()
	}
	wg.Wait()
}

func TestManager_ValidateRacingRevoke(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mgr, _, _ := newTestManager(t)

	tok, err := mgr.Issue(ctx, "u1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = mgr.Revoke(ctx, tok)
	}()
	go func() {
		defer wg.Done()
		// Either outcome is legal mid-race; a deleted session must not
		// be resurrected either way.
		_, err := mgr.Validate(ctx, tok)
		if err != nil {
			assert.ErrorIs(t, err, session.ErrInvalidToken)
		}
	}()
	wg.Wait()

	// After the revoke settles, validation must observe absence.
	_, err = mgr.Validate(ctx, tok)
	require.ErrorIs(t, err, session.ErrInvalidToken)
}
