package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
)

// LearnerStore defines the interface for learner account persistence.
type LearnerStore interface {
	// Create saves a new learner. Returns ErrEmailExists if a learner with
	// the same email already exists.
	Create(ctx context.Context, learner *domain.Learner) error

	// GetByID retrieves a learner by ID.
	// Returns ErrLearnerNotFound if the learner does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error)

	// GetByEmail retrieves a learner by email.
	// Returns ErrLearnerNotFound if the learner does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Learner, error)
}
