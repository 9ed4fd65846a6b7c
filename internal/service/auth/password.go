package auth

import (
	"errors"
	"fmt"

	"github.com/lingueefy/review-engine/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for password hashing. The bcrypt default is
// deliberately kept; raise it here if hardware catches up.
const bcryptCost = bcrypt.DefaultCost

// PasswordVerifier abstracts password hashing and comparison so tests can
// substitute a cheap implementation.
type PasswordVerifier interface {
	// HashPassword returns the storable hash for a plaintext password.
	// Returns domain.ErrPasswordTooShort for passwords below the minimum
	// length.
	HashPassword(password string) (string, error)

	// Compare checks a plaintext password against a stored hash. Returns
	// ErrInvalidCredentials on mismatch.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

var _ PasswordVerifier = (*BcryptVerifier)(nil)

// NewBcryptVerifier creates a BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// HashPassword hashes the password with bcrypt.
func (v *BcryptVerifier) HashPassword(password string) (string, error) {
	if len(password) < domain.MinPasswordLength {
		return "", domain.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare checks the password against the stored bcrypt hash.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}
