package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
)

func TestScheduleBinary(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		reviewCount  int
		correctCount int
		correct      bool
		wantMastery  int
		wantInterval int
	}{
		{
			name:         "first correct answer",
			reviewCount:  0,
			correctCount: 0,
			correct:      true,
			wantMastery:  100,
			wantInterval: 5, // floor(100 / 20)
		},
		{
			name:         "first incorrect answer",
			reviewCount:  0,
			correctCount: 0,
			correct:      false,
			wantMastery:  0,
			wantInterval: 1,
		},
		{
			name:         "seven of ten correct",
			reviewCount:  9,
			correctCount: 6,
			correct:      true,
			wantMastery:  70,
			wantInterval: 3, // floor(70 / 20)
		},
		{
			name:         "incorrect answer always schedules tomorrow",
			reviewCount:  9,
			correctCount: 9,
			correct:      false,
			wantMastery:  90,
			wantInterval: 1,
		},
		{
			name:         "low mastery floors the interval at one day",
			reviewCount:  9,
			correctCount: 0,
			correct:      true,
			wantMastery:  10,
			wantInterval: 1, // max(1, floor(10 / 20))
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := ScheduleBinary(tc.reviewCount, tc.correctCount, tc.correct, now)
			assert.Equal(t, tc.reviewCount+1, r.ReviewCount)
			assert.Equal(t, tc.wantMastery, r.Mastery)
			assert.Equal(t, tc.wantInterval, r.IntervalDays)
			assert.Equal(t, now.AddDate(0, 0, tc.wantInterval), r.NextReviewAt)

			wantCorrect := tc.correctCount
			if tc.correct {
				wantCorrect++
			}
			assert.Equal(t, wantCorrect, r.CorrectCount)
		})
	}
}

func TestMasteryPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 70, domain.MasteryPercent(7, 10))
	assert.Equal(t, 0, domain.MasteryPercent(0, 0))
	assert.Equal(t, 100, domain.MasteryPercent(3, 3))
	assert.Equal(t, 67, domain.MasteryPercent(2, 3)) // rounds half up
}

func TestReviewVocabDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	item, err := domain.NewVocabItem(uuid.New(), "la réunion", "the meeting", now)
	require.NoError(t, err)
	item.ReviewCount = 4
	item.CorrectCount = 2
	item.Mastery = 50

	svc := NewService()
	next, err := svc.ReviewVocab(item, true, now)
	require.NoError(t, err)

	assert.Equal(t, 4, item.ReviewCount, "input must not be mutated")
	assert.Equal(t, 5, next.ReviewCount)
	assert.Equal(t, 3, next.CorrectCount)
	assert.Equal(t, 60, next.Mastery)
	assert.Equal(t, now, next.LastReviewedAt)
	require.NoError(t, next.Validate())
}

func TestReviewVocabNilItem(t *testing.T) {
	t.Parallel()

	_, err := NewService().ReviewVocab(nil, true, time.Now().UTC())
	assert.ErrorIs(t, err, ErrNilItem)
}
