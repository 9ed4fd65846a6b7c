package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A 32+ character secret that satisfies the validator's min length.
const testSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LINGUEEFY_DATABASE_URL", "postgres://localhost:5432/lingueefy_test")
	t.Setenv("LINGUEEFY_AUTH_JWT_SECRET", testSecret)
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINGUEEFY_SERVER_PORT", "9090")
	t.Setenv("LINGUEEFY_SERVER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/lingueefy_test", cfg.Database.URL)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 10080, cfg.Auth.RefreshTokenLifetimeMinutes)
}

func TestLoadRejectsMissingDatabaseURL(t *testing.T) {
	t.Setenv("LINGUEEFY_AUTH_JWT_SECRET", testSecret)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("LINGUEEFY_DATABASE_URL", "postgres://localhost:5432/lingueefy_test")
	t.Setenv("LINGUEEFY_AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINGUEEFY_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
}
