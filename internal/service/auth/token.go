package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/config"
)

// Token errors
var (
	// ErrInvalidCredentials is returned when a login attempt fails. The
	// message never distinguishes a wrong password from an unknown email.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned when a token is malformed, has a bad
	// signature, or carries the wrong token type.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")
)

// Token type claim values.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// claims is the JWT payload carried by both access and refresh tokens.
type claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and validates the signed JWTs used by the HTTP
// surface. Access tokens authenticate requests; refresh tokens only mint new
// token pairs.
type TokenService struct {
	secret          []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
	nowFunc         func() time.Time
}

// NewTokenService creates a TokenService from the auth configuration.
func NewTokenService(cfg config.AuthConfig) (*TokenService, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("jwt secret cannot be empty")
	}

	return &TokenService{
		secret:          []byte(cfg.JWTSecret),
		accessLifetime:  time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		refreshLifetime: time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
		nowFunc:         time.Now,
	}, nil
}

// WithNowFunc overrides the service's clock. Intended for tests.
func (s *TokenService) WithNowFunc(now func() time.Time) *TokenService {
	s.nowFunc = now
	return s
}

// GenerateAccessToken issues a signed access token for the learner.
func (s *TokenService) GenerateAccessToken(learnerID uuid.UUID) (string, error) {
	return s.generate(learnerID, tokenTypeAccess, s.accessLifetime)
}

// GenerateRefreshToken issues a signed refresh token for the learner.
func (s *TokenService) GenerateRefreshToken(learnerID uuid.UUID) (string, error) {
	return s.generate(learnerID, tokenTypeRefresh, s.refreshLifetime)
}

func (s *TokenService) generate(learnerID uuid.UUID, tokenType string, lifetime time.Duration) (string, error) {
	now := s.nowFunc()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   learnerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken checks an access token and returns the learner ID it
// carries.
func (s *TokenService) ValidateAccessToken(tokenString string) (uuid.UUID, error) {
	return s.validate(tokenString, tokenTypeAccess)
}

// ValidateRefreshToken checks a refresh token and returns the learner ID it
// carries.
func (s *TokenService) ValidateRefreshToken(tokenString string) (uuid.UUID, error) {
	return s.validate(tokenString, tokenTypeRefresh)
}

func (s *TokenService) validate(tokenString, wantType string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.nowFunc))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrExpiredToken
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	if c.TokenType != wantType {
		return uuid.Nil, fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	}

	learnerID, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return learnerID, nil
}
