package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Scheduling constants shared by the domain and the srs package.
const (
	// DefaultEaseFactor is the ease factor assigned to a card that has
	// never been reviewed.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the floor below which the ease factor never drops,
	// per the SM-2 algorithm. There is no ceiling.
	MinEaseFactor = 1.3
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front text is empty.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when a card's back text is empty.
	ErrCardBackEmpty = errors.New("card back cannot be empty")

	// ErrInvalidInterval is returned when an interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidEaseFactor is returned when an ease factor is below the floor.
	ErrInvalidEaseFactor = errors.New("ease factor must be at least 1.3")

	// ErrInvalidRepetitions is returned when a repetition count is negative.
	ErrInvalidRepetitions = errors.New("repetitions must be greater than or equal to 0")
)

// Schedule holds the SM-2 scheduling state of a card.
//
// LastReviewedAt is the zero time for a card that has never been reviewed.
type Schedule struct {
	EaseFactor     float64   `json:"ease_factor"`
	IntervalDays   int       `json:"interval_days"`
	Repetitions    int       `json:"repetitions"`
	NextReviewAt   time.Time `json:"next_review_at"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}

// NewSchedule returns the default scheduling state for a freshly created
// card: ease 2.50, interval 0, no repetitions, due immediately.
func NewSchedule(now time.Time) Schedule {
	return Schedule{
		EaseFactor:   DefaultEaseFactor,
		NextReviewAt: now,
	}
}

// Validate checks the Schedule invariants.
func (s Schedule) Validate() error {
	if s.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if s.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	if s.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	return nil
}

// Card is a single flashcard inside a deck, carrying its SM-2 scheduling
// state. Hint, AudioURL and ImageURL are opaque to the engine.
type Card struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Hint      string    `json:"hint,omitempty"`
	AudioURL  string    `json:"audio_url,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Schedule  Schedule  `json:"schedule"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCard creates a new Card in the given deck with default scheduling
// state (due immediately). Returns an error if validation fails.
func NewCard(deckID uuid.UUID, front, back string, now time.Time) (*Card, error) {
	card := &Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		Front:     front,
		Back:      back,
		Schedule:  NewSchedule(now),
		CreatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if c.Back == "" {
		return ErrCardBackEmpty
	}

	return c.Schedule.Validate()
}
