// Package srs implements the spaced-repetition scheduling policies as pure
// functions: the SM-2 recurrence for flashcards and the simpler
// mastery-based binary policy for vocabulary items. Neither performs I/O;
// persistence of the computed schedules is the service layer's job.
package srs

import (
	"errors"
	"time"

	"github.com/lingueefy/review-engine/internal/domain"
)

// Common errors
var (
	ErrNilItem = errors.New("vocabulary item cannot be nil")
)

// Service is the scheduling seam consumed by the review services. The two
// methods are distinct strategies over distinct outcome encodings; they
// share the "produce the next review schedule" contract, not an input type.
type Service interface {
	// ReviewCard computes a card's next SM-2 schedule for a 0..5 quality
	// rating. Returns domain.ErrInvalidQuality for out-of-range quality.
	ReviewCard(prior domain.Schedule, quality int, now time.Time) (domain.Schedule, error)

	// ReviewVocab computes a vocabulary item's updated counters, mastery
	// and next review date for a binary outcome. The input item is not
	// mutated; a new value is returned.
	ReviewVocab(item *domain.VocabItem, correct bool, now time.Time) (*domain.VocabItem, error)
}

type defaultService struct{}

// NewService returns the standard scheduler backed by the pure Schedule
// and ScheduleBinary functions.
func NewService() Service {
	return defaultService{}
}

func (defaultService) ReviewCard(prior domain.Schedule, quality int, now time.Time) (domain.Schedule, error) {
	return Schedule(prior, quality, now)
}

func (defaultService) ReviewVocab(item *domain.VocabItem, correct bool, now time.Time) (*domain.VocabItem, error) {
	if item == nil {
		return nil, ErrNilItem
	}

	r := ScheduleBinary(item.ReviewCount, item.CorrectCount, correct, now)

	next := *item
	next.ReviewCount = r.ReviewCount
	next.CorrectCount = r.CorrectCount
	next.Mastery = r.Mastery
	next.NextReviewAt = r.NextReviewAt
	next.LastReviewedAt = now

	return &next, nil
}
