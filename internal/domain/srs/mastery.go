package srs

import (
	"time"

	"github.com/lingueefy/review-engine/internal/domain"
)

// BinaryReview is the result of reviewing a vocabulary item with the
// mastery-based binary policy.
type BinaryReview struct {
	ReviewCount  int
	CorrectCount int
	Mastery      int
	IntervalDays int
	NextReviewAt time.Time
}

// ScheduleBinary applies the binary correct/incorrect vocabulary policy:
// counters increment, mastery is recomputed as correct/reviewed × 100, and
// the next interval is max(1, floor(mastery / 20)) days on a correct answer
// or 1 day on an incorrect one.
//
// This is deliberately a separate strategy from the 0..5 quality SM-2
// recurrence in Schedule; the two are never mixed.
func ScheduleBinary(reviewCount, correctCount int, correct bool, now time.Time) BinaryReview {
	reviewCount++
	if correct {
		correctCount++
	}

	mastery := domain.MasteryPercent(correctCount, reviewCount)

	intervalDays := 1
	if correct {
		if d := mastery / 20; d > 1 {
			intervalDays = d
		}
	}

	return BinaryReview{
		ReviewCount:  reviewCount,
		CorrectCount: correctCount,
		Mastery:      mastery,
		IntervalDays: intervalDays,
		NextReviewAt: now.AddDate(0, 0, intervalDays),
	}
}
