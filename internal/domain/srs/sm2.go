package srs

import (
	"math"
	"time"

	"github.com/lingueefy/review-engine/internal/domain"
)

// SM-2 interval seeds for the first two successful repetitions.
const (
	firstInterval  = 1
	secondInterval = 6
)

// PassingQuality is the lowest quality rating counted as a successful
// recall. Ratings below it reset the repetition sequence.
const PassingQuality = 3

// ValidQuality reports whether q is a legal SM-2 quality rating.
// Quality is an integer in [0,5]; out-of-range values are rejected rather
// than clamped so that caller bugs surface immediately.
func ValidQuality(q int) bool {
	return q >= 0 && q <= 5
}

// Schedule applies the SM-2 recurrence to a card's scheduling state and
// returns the new state. It is a pure function: the prior state is never
// mutated and identical inputs always produce identical outputs.
//
// For quality >= 3 (recalled) the interval progresses 1, 6, then
// round(interval × ease); the repetition count increments. For quality < 3
// (forgotten) the repetition count resets to 0 and the interval to 1 with
// no partial credit. In both branches the ease factor is adjusted by
//
//	ease' = ease + (0.1 − (5−q) × (0.08 + (5−q) × 0.02))
//
// and floored at 1.30. There is no upper bound, so well-retained cards keep
// growing their intervals.
//
// Returns domain.ErrInvalidQuality if quality is outside [0,5].
func Schedule(prior domain.Schedule, quality int, now time.Time) (domain.Schedule, error) {
	if !ValidQuality(quality) {
		return domain.Schedule{}, domain.ErrInvalidQuality
	}

	next := prior

	if quality >= PassingQuality {
		switch prior.Repetitions {
		case 0:
			next.IntervalDays = firstInterval
		case 1:
			next.IntervalDays = secondInterval
		default:
			// Grow by the pre-update ease factor, rounding half up.
			next.IntervalDays = int(math.Round(float64(prior.IntervalDays) * prior.EaseFactor))
		}
		next.Repetitions = prior.Repetitions + 1
	} else {
		next.Repetitions = 0
		next.IntervalDays = firstInterval
	}

	next.EaseFactor = adjustEase(prior.EaseFactor, quality)
	next.LastReviewedAt = now
	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)

	return next, nil
}

// adjustEase applies the SM-2 ease update for the given quality and clamps
// the result to the 1.30 floor.
func adjustEase(ease float64, quality int) float64 {
	miss := float64(5 - quality)
	ease += 0.1 - miss*(0.08+miss*0.02)
	if ease < domain.MinEaseFactor {
		ease = domain.MinEaseFactor
	}
	return ease
}
