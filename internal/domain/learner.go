package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Learner-specific validation errors
var (
	// ErrLearnerIDEmpty is returned when a learner ID is empty or nil.
	ErrLearnerIDEmpty = errors.New("learner ID cannot be empty")

	// ErrLearnerEmailEmpty is returned when a learner's email is empty.
	ErrLearnerEmailEmpty = errors.New("learner email cannot be empty")

	// ErrPasswordTooShort is returned when a plaintext password is shorter
	// than the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
)

// MinPasswordLength is the minimum accepted plaintext password length.
const MinPasswordLength = 12

// Learner represents an account that owns decks, cards, vocabulary items
// and a gamification ledger. The engine only needs the learner's identity;
// the email and password hash exist to give the HTTP surface an
// authenticated caller.
type Learner struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	DisplayName    string    `json:"display_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewLearner creates a new Learner with the given email, display name and
// already-hashed password. Returns an error if validation fails.
func NewLearner(email, displayName, hashedPassword string, now time.Time) (*Learner, error) {
	learner := &Learner{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
		DisplayName:    displayName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := learner.Validate(); err != nil {
		return nil, err
	}

	return learner, nil
}

// Validate checks if the Learner has valid data.
func (l *Learner) Validate() error {
	if l.ID == uuid.Nil {
		return ErrLearnerIDEmpty
	}

	if l.Email == "" {
		return ErrLearnerEmailEmpty
	}

	if _, err := mail.ParseAddress(l.Email); err != nil {
		return ErrInvalidEmail
	}

	return nil
}
