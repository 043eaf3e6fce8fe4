package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/budgetd/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "budgetd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/budgetd
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, config.StorePostgres, cfg.Session.Store)
	assert.Equal(t, 14*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 255, cfg.Session.TokenLength)
	assert.True(t, cfg.Session.SlidingExpiration)
	assert.Equal(t, "0 */6 * * *", cfg.Sweep.Schedule)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
database:
  url: postgres://localhost/budgetd
session:
  ttl: 72h
  sliding_expiration: false
sweep:
  schedule: "30 * * * *"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 72*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Session.SlidingExpiration)
	assert.Equal(t, "30 * * * *", cfg.Sweep.Schedule)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_DATABASE_URL", "postgres://env-host/budgetd")

	path := writeConfig(t, `
database:
  url: ${TEST_DATABASE_URL}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env-host/budgetd", cfg.Database.URL)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	path := writeConfig(t, `
session:
  store: postgres
`)

	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrMissingDatabaseURL)
}

func TestLoad_MemoryStoreNeedsNoDatabase(t *testing.T) {
	path := writeConfig(t, `
session:
  store: memory
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.StoreMemory, cfg.Session.Store)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
