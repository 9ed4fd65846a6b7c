package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
)

// DeckMastery is the per-deck mastery aggregate: the share of a deck's
// cards whose interval has reached the mastered threshold (21 days).
type DeckMastery struct {
	DeckID  uuid.UUID `json:"deck_id"`
	Title   string    `json:"title"`
	Mastery int       `json:"mastery"` // whole percent
}

// FlashcardStats are the per-learner flashcard totals.
type FlashcardStats struct {
	TotalDecks int `json:"total_decks"`
	TotalCards int `json:"total_cards"`
	DueCards   int `json:"due_cards"`
	Mastered   int `json:"mastered"`
}

// DeckStore defines the interface for deck persistence.
type DeckStore interface {
	// Create saves a new deck. Returns validation errors from the domain
	// Deck if data is invalid.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetForLearner retrieves a deck by ID, scoped to the owning learner.
	// Returns ErrDeckNotFound if the deck does not exist or belongs to a
	// different learner; ownership mismatches are indistinguishable from
	// absence by design.
	GetForLearner(ctx context.Context, learnerID, deckID uuid.UUID) (*domain.Deck, error)

	// ListByLearner returns all decks owned by the learner, most recently
	// updated first.
	ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.Deck, error)

	// Delete removes a deck and relies on ON DELETE CASCADE to remove its
	// cards. Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, deckID uuid.UUID) error

	// RefreshCardCount recomputes the denormalized card count for a deck
	// from the cards table. Call after adding or removing cards.
	RefreshCardCount(ctx context.Context, deckID uuid.UUID) error

	// Stats returns the learner's flashcard totals at the given due cutoff.
	Stats(ctx context.Context, learnerID uuid.UUID, dueBefore time.Time) (*FlashcardStats, error)

	// MasteryByDeck returns the mastery aggregate for each of the
	// learner's decks, ordered by title.
	MasteryByDeck(ctx context.Context, learnerID uuid.UUID) ([]DeckMastery, error)

	// WithTx returns a DeckStore bound to the provided transaction.
	WithTx(tx *sql.Tx) DeckStore
}
