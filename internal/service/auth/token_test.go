package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/config"
	"github.com/lingueefy/review-engine/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(t *testing.T, now time.Time) *auth.TokenService {
	t.Helper()

	tokens, err := auth.NewTokenService(config.AuthConfig{
		JWTSecret:                   "test-secret-of-at-least-32-characters",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60 * 24,
	})
	require.NoError(t, err)
	return tokens.WithNowFunc(func() time.Time { return now })
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tokens := newTokenService(t, now)
	learnerID := uuid.New()

	access, err := tokens.GenerateAccessToken(learnerID)
	require.NoError(t, err)

	got, err := tokens.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, learnerID, got)

	refresh, err := tokens.GenerateRefreshToken(learnerID)
	require.NoError(t, err)

	got, err = tokens.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, learnerID, got)
}

func TestTokenTypeIsEnforced(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tokens := newTokenService(t, now)

	refresh, err := tokens.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	// A refresh token must never pass as an access token, or vice versa.
	_, err = tokens.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	access, err := tokens.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = tokens.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tokens := newTokenService(t, issued)

	access, err := tokens.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	// Advance the clock past the 15 minute access lifetime.
	tokens.WithNowFunc(func() time.Time { return issued.Add(16 * time.Minute) })

	_, err = tokens.ValidateAccessToken(access)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestTamperedTokenRejected(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tokens := newTokenService(t, now)

	access, err := tokens.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = tokens.ValidateAccessToken(access + "x")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = tokens.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokensFromDifferentSecretRejected(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tokens := newTokenService(t, now)

	other, err := auth.NewTokenService(config.AuthConfig{
		JWTSecret:                   "a-completely-different-32-char-secret!",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	foreign, err := other.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = tokens.ValidateAccessToken(foreign)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := auth.NewTokenService(config.AuthConfig{TokenLifetimeMinutes: 15})
	assert.Error(t, err)
}
