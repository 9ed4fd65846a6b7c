package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckLearnerIDEmpty is returned when a deck's learner ID is empty or nil.
	ErrDeckLearnerIDEmpty = errors.New("deck learner ID cannot be empty")

	// ErrDeckTitleEmpty is returned when a deck's title is empty.
	ErrDeckTitleEmpty = errors.New("deck title cannot be empty")

	// ErrInvalidCEFRLevel is returned when a CEFR level is not one of A1..C2.
	ErrInvalidCEFRLevel = errors.New("invalid CEFR level")
)

// CEFRLevel is a Common European Framework of Reference language level.
type CEFRLevel string

// Supported CEFR levels, ordered from beginner to mastery.
const (
	CEFRLevelA1 CEFRLevel = "A1"
	CEFRLevelA2 CEFRLevel = "A2"
	CEFRLevelB1 CEFRLevel = "B1"
	CEFRLevelB2 CEFRLevel = "B2"
	CEFRLevelC1 CEFRLevel = "C1"
	CEFRLevelC2 CEFRLevel = "C2"
)

// ValidCEFRLevel reports whether the given level is one of the supported
// CEFR levels.
func ValidCEFRLevel(level CEFRLevel) bool {
	switch level {
	case CEFRLevelA1, CEFRLevelA2, CEFRLevelB1, CEFRLevelB2, CEFRLevelC1, CEFRLevelC2:
		return true
	default:
		return false
	}
}

// Deck is a collection of flashcards owned by a single learner.
// CardCount is denormalized and recomputed by the store whenever cards are
// added to or removed from the deck.
type Deck struct {
	ID            uuid.UUID `json:"id"`
	LearnerID     uuid.UUID `json:"learner_id"`
	Title         string    `json:"title"`
	TitleFr       string    `json:"title_fr,omitempty"`
	Description   string    `json:"description,omitempty"`
	DescriptionFr string    `json:"description_fr,omitempty"`
	CEFRLevel     CEFRLevel `json:"cefr_level"`
	Category      string    `json:"category"`
	CardCount     int       `json:"card_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewDeck creates a new Deck for the given learner. An empty CEFR level
// defaults to A1 and an empty category to "general", matching the defaults
// applied at deck creation in the product.
func NewDeck(learnerID uuid.UUID, title string, now time.Time) (*Deck, error) {
	deck := &Deck{
		ID:        uuid.New(),
		LearnerID: learnerID,
		Title:     title,
		CEFRLevel: CEFRLevelA1,
		Category:  "general",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.LearnerID == uuid.Nil {
		return ErrDeckLearnerIDEmpty
	}

	if d.Title == "" {
		return ErrDeckTitleEmpty
	}

	if !ValidCEFRLevel(d.CEFRLevel) {
		return ErrInvalidCEFRLevel
	}

	return nil
}
