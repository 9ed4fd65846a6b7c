package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingueefy/review-engine/internal/domain"
)

var reviewTime = time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)

func TestScheduleRejectsOutOfRangeQuality(t *testing.T) {
	t.Parallel()

	prior := domain.NewSchedule(reviewTime)
	for _, q := range []int{-1, 6, 42} {
		_, err := Schedule(prior, q, reviewTime)
		assert.ErrorIs(t, err, domain.ErrInvalidQuality, "quality %d must be rejected", q)
	}
}

func TestScheduleIntervalProgression(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		prior        domain.Schedule
		quality      int
		wantInterval int
		wantReps     int
	}{
		{
			name:         "first successful review yields one day",
			prior:        domain.Schedule{EaseFactor: 2.5, IntervalDays: 0, Repetitions: 0},
			quality:      4,
			wantInterval: 1,
			wantReps:     1,
		},
		{
			name:         "second successful review yields six days",
			prior:        domain.Schedule{EaseFactor: 2.5, IntervalDays: 1, Repetitions: 1},
			quality:      4,
			wantInterval: 6,
			wantReps:     2,
		},
		{
			name:         "later reviews grow by the ease factor",
			prior:        domain.Schedule{EaseFactor: 2.5, IntervalDays: 6, Repetitions: 2},
			quality:      4,
			wantInterval: 15, // round(6 * 2.5)
			wantReps:     3,
		},
		{
			name:         "growth rounds half up",
			prior:        domain.Schedule{EaseFactor: 1.3, IntervalDays: 10, Repetitions: 3},
			quality:      3,
			wantInterval: 13, // round(10 * 1.3)
			wantReps:     4,
		},
		{
			name:         "failure resets repetitions and interval",
			prior:        domain.Schedule{EaseFactor: 2.5, IntervalDays: 30, Repetitions: 7},
			quality:      2,
			wantInterval: 1,
			wantReps:     0,
		},
		{
			name:         "blackout resets even a long streak",
			prior:        domain.Schedule{EaseFactor: 2.8, IntervalDays: 120, Repetitions: 12},
			quality:      0,
			wantInterval: 1,
			wantReps:     0,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			next, err := Schedule(tc.prior, tc.quality, reviewTime)
			require.NoError(t, err)
			assert.Equal(t, tc.wantInterval, next.IntervalDays)
			assert.Equal(t, tc.wantReps, next.Repetitions)
			assert.Equal(t, reviewTime.AddDate(0, 0, tc.wantInterval), next.NextReviewAt)
			assert.Equal(t, reviewTime, next.LastReviewedAt)
		})
	}
}

func TestScheduleEaseFactor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		ease     float64
		quality  int
		wantEase float64
	}{
		{name: "perfect recall raises ease", ease: 2.5, quality: 5, wantEase: 2.6},
		{name: "good recall keeps ease flat", ease: 2.5, quality: 4, wantEase: 2.5},
		{name: "hesitant recall lowers ease", ease: 2.5, quality: 3, wantEase: 2.36},
		{name: "failure lowers ease sharply", ease: 2.5, quality: 1, wantEase: 1.96},
		{name: "ease never drops below the floor", ease: 1.35, quality: 0, wantEase: 1.3},
		{name: "ease has no ceiling", ease: 4.0, quality: 5, wantEase: 4.1},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			prior := domain.Schedule{EaseFactor: tc.ease, IntervalDays: 6, Repetitions: 2}
			next, err := Schedule(prior, tc.quality, reviewTime)
			require.NoError(t, err)
			assert.InDelta(t, tc.wantEase, next.EaseFactor, 1e-9)
		})
	}
}

// Ease stays at or above the floor for every legal quality and a sweep of
// prior ease values.
func TestScheduleEaseFloorProperty(t *testing.T) {
	t.Parallel()

	for q := 0; q <= 5; q++ {
		for ease := domain.MinEaseFactor; ease < 3.5; ease += 0.1 {
			prior := domain.Schedule{EaseFactor: ease, IntervalDays: 4, Repetitions: 2}
			next, err := Schedule(prior, q, reviewTime)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, next.EaseFactor, domain.MinEaseFactor,
				"quality %d, prior ease %.2f", q, ease)
		}
	}
}

// Schedule is pure: repeated calls with identical inputs agree, and the
// prior state is untouched.
func TestScheduleIsPure(t *testing.T) {
	t.Parallel()

	prior := domain.Schedule{EaseFactor: 2.2, IntervalDays: 9, Repetitions: 3}
	snapshot := prior

	first, err := Schedule(prior, 4, reviewTime)
	require.NoError(t, err)
	second, err := Schedule(prior, 4, reviewTime)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, prior)
}

// Walks the full lifecycle of a fresh card: two successes, a perfect
// recall, then a lapse.
func TestScheduleLifecycle(t *testing.T) {
	t.Parallel()

	sched := domain.NewSchedule(reviewTime)

	sched, err := Schedule(sched, 4, reviewTime)
	require.NoError(t, err)
	assert.Equal(t, 1, sched.IntervalDays)
	assert.Equal(t, 1, sched.Repetitions)
	assert.InDelta(t, 2.5, sched.EaseFactor, 1e-9)

	sched, err = Schedule(sched, 4, reviewTime)
	require.NoError(t, err)
	assert.Equal(t, 6, sched.IntervalDays)
	assert.Equal(t, 2, sched.Repetitions)

	sched, err = Schedule(sched, 5, reviewTime)
	require.NoError(t, err)
	assert.Equal(t, 15, sched.IntervalDays) // round(6 * 2.5)
	assert.Equal(t, 3, sched.Repetitions)
	assert.InDelta(t, 2.6, sched.EaseFactor, 1e-9)

	sched, err = Schedule(sched, 1, reviewTime)
	require.NoError(t, err)
	assert.Equal(t, 1, sched.IntervalDays)
	assert.Equal(t, 0, sched.Repetitions)
	assert.InDelta(t, 2.06, sched.EaseFactor, 1e-9)
	require.NoError(t, sched.Validate())
}
