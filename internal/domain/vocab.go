package domain

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Vocabulary-specific validation errors
var (
	// ErrVocabIDEmpty is returned when a vocabulary item ID is empty or nil.
	ErrVocabIDEmpty = errors.New("vocabulary item ID cannot be empty")

	// ErrVocabLearnerIDEmpty is returned when a vocabulary item's learner ID is empty or nil.
	ErrVocabLearnerIDEmpty = errors.New("vocabulary item learner ID cannot be empty")

	// ErrVocabWordEmpty is returned when a vocabulary item's word is empty.
	ErrVocabWordEmpty = errors.New("vocabulary word cannot be empty")

	// ErrVocabTranslationEmpty is returned when a vocabulary item's translation is empty.
	ErrVocabTranslationEmpty = errors.New("vocabulary translation cannot be empty")

	// ErrInvalidCounters is returned when the correct count exceeds the review count.
	ErrInvalidCounters = errors.New("correct count cannot exceed review count")
)

// MasteredThreshold is the mastery percentage at or above which a
// vocabulary item counts as mastered in aggregate stats.
const MasteredThreshold = 80

// VocabItem is one entry in a learner's personal vocabulary bank. It is
// reviewed with a binary correct/incorrect outcome and tracks a derived
// mastery percentage rather than full SM-2 state.
type VocabItem struct {
	ID             uuid.UUID `json:"id"`
	LearnerID      uuid.UUID `json:"learner_id"`
	Word           string    `json:"word"`
	Translation    string    `json:"translation"`
	Language       string    `json:"language"`
	Context        string    `json:"context,omitempty"`
	Category       string    `json:"category"`
	CEFRLevel      CEFRLevel `json:"cefr_level"`
	Mastery        int       `json:"mastery"`
	ReviewCount    int       `json:"review_count"`
	CorrectCount   int       `json:"correct_count"`
	NextReviewAt   time.Time `json:"next_review_at"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewVocabItem creates a new vocabulary item for the given learner, due for
// review immediately. An empty language defaults to "fr", an empty category
// to "general" and an empty CEFR level to A1.
func NewVocabItem(learnerID uuid.UUID, word, translation string, now time.Time) (*VocabItem, error) {
	item := &VocabItem{
		ID:           uuid.New(),
		LearnerID:    learnerID,
		Word:         word,
		Translation:  translation,
		Language:     "fr",
		Category:     "general",
		CEFRLevel:    CEFRLevelA1,
		NextReviewAt: now,
		CreatedAt:    now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the VocabItem has valid data.
func (v *VocabItem) Validate() error {
	if v.ID == uuid.Nil {
		return ErrVocabIDEmpty
	}

	if v.LearnerID == uuid.Nil {
		return ErrVocabLearnerIDEmpty
	}

	if v.Word == "" {
		return ErrVocabWordEmpty
	}

	if v.Translation == "" {
		return ErrVocabTranslationEmpty
	}

	if !ValidCEFRLevel(v.CEFRLevel) {
		return ErrInvalidCEFRLevel
	}

	if v.ReviewCount < 0 || v.CorrectCount < 0 || v.CorrectCount > v.ReviewCount {
		return ErrInvalidCounters
	}

	return nil
}

// MasteryPercent computes the mastery percentage for the given counters:
// correct / reviewed × 100, rounded half up. Zero reviews yield zero mastery.
func MasteryPercent(correctCount, reviewCount int) int {
	if reviewCount <= 0 {
		return 0
	}
	return int(math.Round(float64(correctCount) / float64(reviewCount) * 100))
}
