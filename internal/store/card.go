package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
)

// CardStore defines the interface for flashcard persistence.
type CardStore interface {
	// Create saves a new card. Returns validation errors from the domain
	// Card if data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// GetForLearner retrieves a card by ID, scoped through its deck to the
	// owning learner. Returns ErrCardNotFound if the card does not exist
	// or its deck belongs to a different learner.
	GetForLearner(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.Card, error)

	// ListByDeck returns all cards in a deck, newest first.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// ListDue returns up to limit cards owned by the learner whose next
	// review time is at or before dueBefore, most overdue first. Ordering
	// is deterministic: next_review_at ascending, then card ID. A non-nil
	// deckID restricts the query to one deck.
	ListDue(
		ctx context.Context,
		learnerID uuid.UUID,
		deckID *uuid.UUID,
		dueBefore time.Time,
		limit int,
	) ([]*domain.Card, error)

	// UpdateSchedule persists a card's new scheduling state.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateSchedule(ctx context.Context, cardID uuid.UUID, sched domain.Schedule) error

	// Delete removes a card. Returns ErrCardNotFound if the card does not
	// exist; callers that want idempotent deletion treat that as success.
	Delete(ctx context.Context, cardID uuid.UUID) error

	// WithTx returns a CardStore bound to the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
