// Package auth implements learner registration, login and token refresh.
// Passwords are hashed with bcrypt; sessions are stateless signed JWTs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lingueefy/review-engine/internal/domain"
	"github.com/lingueefy/review-engine/internal/store"
)

// Result is a successful authentication outcome: the learner plus a fresh
// token pair.
type Result struct {
	Learner      *domain.Learner `json:"learner"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

// Service implements the authentication operations.
type Service struct {
	learners store.LearnerStore
	tokens   *TokenService
	verifier PasswordVerifier
	logger   *slog.Logger
	nowFunc  func() time.Time
}

// NewService creates an auth Service.
func NewService(
	learners store.LearnerStore,
	tokens *TokenService,
	verifier PasswordVerifier,
	logger *slog.Logger,
) (*Service, error) {
	if learners == nil {
		return nil, errors.New("learner store cannot be nil")
	}
	if tokens == nil {
		return nil, errors.New("token service cannot be nil")
	}
	if verifier == nil {
		return nil, errors.New("password verifier cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Service{
		learners: learners,
		tokens:   tokens,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "auth_service")),
		nowFunc:  time.Now,
	}, nil
}

// WithNowFunc overrides the service's clock. Intended for tests.
func (s *Service) WithNowFunc(now func() time.Time) *Service {
	s.nowFunc = now
	return s
}

// Register creates a new learner account and returns a token pair.
// Returns store.ErrEmailExists if the email is already registered.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*Result, error) {
	hash, err := s.verifier.HashPassword(password)
	if err != nil {
		return nil, err
	}

	learner, err := domain.NewLearner(email, displayName, hash, s.nowFunc())
	if err != nil {
		return nil, err
	}

	if err := s.learners.Create(ctx, learner); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "learner registered",
		slog.String("learner_id", learner.ID.String()))
	return s.issueTokens(learner)
}

// Login authenticates a learner by email and password. The error for an
// unknown email and a wrong password is identical.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	learner, err := s.learners.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.verifier.Compare(learner.HashedPassword, password); err != nil {
		return nil, err
	}

	return s.issueTokens(learner)
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	learnerID, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	learner, err := s.learners.GetByID(ctx, learnerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return s.issueTokens(learner)
}

func (s *Service) issueTokens(learner *domain.Learner) (*Result, error) {
	access, err := s.tokens.GenerateAccessToken(learner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.tokens.GenerateRefreshToken(learner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &Result{
		Learner:      learner,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
