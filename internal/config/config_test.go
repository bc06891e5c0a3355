package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BIND_ADDR", "")
	t.Setenv("API_KEY", "")
	t.Setenv("RETRY_MAX_ATTEMPTS", "")
	t.Setenv("RETRY_INITIAL_DELAY", "")
	t.Setenv("RETRY_BACKOFF_FACTOR", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.BindAddr)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, 10, cfg.RetryMaxAttempts)
	assert.Equal(t, time.Second, cfg.RetryInitialDelay)
	assert.Equal(t, 2.0, cfg.RetryBackoffFactor)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example/db")
	t.Setenv("BIND_ADDR", ":9090")
	t.Setenv("API_KEY", "sekrit")
	t.Setenv("RETRY_MAX_ATTEMPTS", "3")
	t.Setenv("RETRY_INITIAL_DELAY", "250ms")
	t.Setenv("RETRY_BACKOFF_FACTOR", "1.5")

	cfg := Load()
	assert.Equal(t, "postgres://example/db", cfg.DatabaseURL)
	assert.Equal(t, ":9090", cfg.BindAddr)
	assert.Equal(t, "sekrit", cfg.APIKey)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryInitialDelay)
	assert.Equal(t, 1.5, cfg.RetryBackoffFactor)
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("RETRY_MAX_ATTEMPTS", "lots")
	t.Setenv("RETRY_INITIAL_DELAY", "soon")
	t.Setenv("RETRY_BACKOFF_FACTOR", "steep")

	cfg := Load()
	assert.Equal(t, 10, cfg.RetryMaxAttempts)
	assert.Equal(t, time.Second, cfg.RetryInitialDelay)
	assert.Equal(t, 2.0, cfg.RetryBackoffFactor)
}

func TestLoadAndValidate(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example/db")
	t.Setenv("RETRY_MAX_ATTEMPTS", "")
	t.Setenv("RETRY_BACKOFF_FACTOR", "")

	cfg, err := LoadAndValidate()
	require.NoError(t, err)
	assert.Equal(t, "postgres://example/db", cfg.DatabaseURL)
}

func TestLoadAndValidateRejectsBadConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := LoadAndValidate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://example/db")
	t.Setenv("RETRY_MAX_ATTEMPTS", "0")
	_, err = LoadAndValidate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RETRY_MAX_ATTEMPTS")

	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("RETRY_BACKOFF_FACTOR", "0.5")
	_, err = LoadAndValidate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RETRY_BACKOFF_FACTOR")
}
