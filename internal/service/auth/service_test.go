package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/lingueefy/review-engine/internal/config"
	"github.com/lingueefy/review-engine/internal/domain"
	"github.com/lingueefy/review-engine/internal/mocks"
	"github.com/lingueefy/review-engine/internal/service/auth"
	"github.com/lingueefy/review-engine/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-battery"

func newAuthService(t *testing.T, learners *mocks.MemoryLearnerStore) *auth.Service {
	t.Helper()

	tokens, err := auth.NewTokenService(config.AuthConfig{
		JWTSecret:                   "test-secret-of-at-least-32-characters",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60 * 24,
	})
	require.NoError(t, err)

	svc, err := auth.NewService(
		learners,
		tokens,
		auth.NewBcryptVerifier(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	return svc
}

func TestRegisterIssuesTokens(t *testing.T) {
	t.Parallel()

	learners := mocks.NewMemoryLearnerStore()
	svc := newAuthService(t, learners)

	result, err := svc.Register(context.Background(), "ana@example.com", testPassword, "Ana")
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "ana@example.com", result.Learner.Email)
	assert.NotEqual(t, testPassword, result.Learner.HashedPassword,
		"password must never be stored in the clear")

	stored, err := learners.GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, result.Learner.ID, stored.ID)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, mocks.NewMemoryLearnerStore())

	_, err := svc.Register(context.Background(), "ana@example.com", "short", "Ana")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	learners := mocks.NewMemoryLearnerStore()
	svc := newAuthService(t, learners)

	_, err := svc.Register(context.Background(), "ana@example.com", testPassword, "Ana")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ana@example.com", testPassword, "Also Ana")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	learners := mocks.NewMemoryLearnerStore()
	svc := newAuthService(t, learners)

	registered, err := svc.Register(context.Background(), "ana@example.com", testPassword, "Ana")
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "ana@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, registered.Learner.ID, result.Learner.ID)
	assert.NotEmpty(t, result.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	learners := mocks.NewMemoryLearnerStore()
	svc := newAuthService(t, learners)

	_, err := svc.Register(context.Background(), "ana@example.com", testPassword, "Ana")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ana@example.com", "wrong-password-entirely")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, mocks.NewMemoryLearnerStore())

	// Same error as a wrong password, so callers cannot probe for accounts.
	_, err := svc.Login(context.Background(), "nobody@example.com", testPassword)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	t.Parallel()

	learners := mocks.NewMemoryLearnerStore()
	svc := newAuthService(t, learners)

	registered, err := svc.Register(context.Background(), "ana@example.com", testPassword, "Ana")
	require.NoError(t, err)

	result, err := svc.Refresh(context.Background(), registered.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.Learner.ID, result.Learner.ID)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	t.Parallel()

	learners := mocks.NewMemoryLearnerStore()
	svc := newAuthService(t, learners)

	registered, err := svc.Register(context.Background(), "ana@example.com", testPassword, "Ana")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), registered.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshForUnknownLearner(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, mocks.NewMemoryLearnerStore())

	// A token signed with the same secret but whose learner no longer exists
	// in the store must not refresh.
	other := newAuthService(t, mocks.NewMemoryLearnerStore())
	registered, err := other.Register(context.Background(), "ghost@example.com", testPassword, "Ghost")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), registered.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
