package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
)

// VocabStats are the per-learner vocabulary bank totals.
type VocabStats struct {
	TotalWords     int `json:"total_words"`
	Mastered       int `json:"mastered"` // mastery >= domain.MasteredThreshold
	DueForReview   int `json:"due_for_review"`
	AverageMastery int `json:"average_mastery"`
}

// VocabStore defines the interface for vocabulary item persistence.
type VocabStore interface {
	// Create saves a new vocabulary item. Returns validation errors from
	// the domain VocabItem if data is invalid.
	Create(ctx context.Context, item *domain.VocabItem) error

	// GetForLearner retrieves a vocabulary item by ID, scoped to the
	// owning learner. Returns ErrVocabItemNotFound if the item does not
	// exist or belongs to a different learner.
	GetForLearner(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.VocabItem, error)

	// ListByLearner returns the learner's vocabulary bank, newest first.
	ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.VocabItem, error)

	// ListDue returns up to limit vocabulary items due at or before
	// dueBefore, most overdue first with ID as tie-break.
	ListDue(
		ctx context.Context,
		learnerID uuid.UUID,
		dueBefore time.Time,
		limit int,
	) ([]*domain.VocabItem, error)

	// UpdateReview persists an item's post-review counters, mastery and
	// schedule. Returns ErrVocabItemNotFound if the item does not exist.
	UpdateReview(ctx context.Context, item *domain.VocabItem) error

	// Delete removes a vocabulary item scoped to the owning learner.
	// Deleting an absent item is not an error; it reports deleted=false.
	Delete(ctx context.Context, learnerID, itemID uuid.UUID) (deleted bool, err error)

	// Stats returns the learner's vocabulary totals at the given due cutoff.
	Stats(ctx context.Context, learnerID uuid.UUID, dueBefore time.Time) (*VocabStats, error)

	// WithTx returns a VocabStore bound to the provided transaction.
	WithTx(tx *sql.Tx) VocabStore
}
