package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnect_InvalidURL(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.URL = "://not-a-url"

	pool, err := Connect(context.Background(), cfg)
	require.Error(t, err)
	require.Nil(t, pool)
	require.True(t, errors.Is(err, ErrParseConfig))
}

func TestConnect_FailsWithoutTrailingSleep(t *testing.T) {
	t.Parallel()

	// Port 1 refuses connections immediately, so elapsed time is
	// dominated by the single inter-attempt backoff.
	cfg := DefaultConfig()
	cfg.URL = "postgres://127.0.0.1:1/budgetd?sslmode=disable"
	cfg.RetryAttempts = 2
	cfg.RetryInterval = 200 * time.Millisecond

	start := time.Now()
	pool, err := Connect(context.Background(), cfg)
	elapsed := time.Since(start)

	require.Error(t, err)
	require.Nil(t, pool)
	require.True(t, errors.Is(err, ErrOpenConnection))
	require.Less(t, elapsed, 500*time.Millisecond)
}
