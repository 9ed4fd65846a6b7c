package gamify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceStreak(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		state       StreakState
		now         time.Time
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "first ever activity starts a streak of one",
			state:       StreakState{},
			now:         day(2025, 3, 10),
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "consecutive day extends the streak",
			state:       StreakState{Current: 4, Longest: 4, LastActivity: day(2025, 3, 9)},
			now:         day(2025, 3, 10),
			wantCurrent: 5,
			wantLongest: 5,
		},
		{
			name:        "second activity the same day is a no-op",
			state:       StreakState{Current: 5, Longest: 5, LastActivity: day(2025, 3, 10)},
			now:         day(2025, 3, 10).Add(9 * time.Hour),
			wantCurrent: 5,
			wantLongest: 5,
		},
		{
			name:        "a gap of two or more days resets to one",
			state:       StreakState{Current: 12, Longest: 12, LastActivity: day(2025, 3, 5)},
			now:         day(2025, 3, 10),
			wantCurrent: 1,
			wantLongest: 12,
		},
		{
			name:        "longest is preserved across resets",
			state:       StreakState{Current: 1, Longest: 30, LastActivity: day(2025, 3, 9)},
			now:         day(2025, 3, 10),
			wantCurrent: 2,
			wantLongest: 30,
		},
		{
			name:        "clock time within the day does not matter",
			state:       StreakState{Current: 2, Longest: 2, LastActivity: day(2025, 3, 9).Add(23 * time.Hour)},
			now:         day(2025, 3, 10).Add(30 * time.Minute),
			wantCurrent: 3,
			wantLongest: 3,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			next := AdvanceStreak(tc.state, tc.now)
			assert.Equal(t, tc.wantCurrent, next.Current)
			assert.Equal(t, tc.wantLongest, next.Longest)
			assert.Equal(t, DayUTC(tc.now), next.LastActivity)
		})
	}
}

// Three consecutive days produce a streak of three; a five-day gap then
// resets to one. Longest never decreases across the whole sequence.
func TestAdvanceStreakSequence(t *testing.T) {
	t.Parallel()

	s := StreakState{}
	start := day(2025, 3, 1)

	for i := 0; i < 3; i++ {
		s = AdvanceStreak(s, start.AddDate(0, 0, i))
	}
	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 3, s.Longest)

	s = AdvanceStreak(s, start.AddDate(0, 0, 7))
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 3, s.Longest, "longest streak never decreases")
}

// AdvanceStreak applied twice for the same instant is idempotent, the
// defense against two concurrent reviews racing on the same day.
func TestAdvanceStreakIdempotentSameDay(t *testing.T) {
	t.Parallel()

	now := day(2025, 3, 10).Add(12 * time.Hour)
	once := AdvanceStreak(StreakState{Current: 3, Longest: 3, LastActivity: day(2025, 3, 9)}, now)
	twice := AdvanceStreak(once, now)
	assert.Equal(t, once, twice)
}

func TestDayUTC(t *testing.T) {
	t.Parallel()

	est := time.FixedZone("EST", -5*3600)
	// 23:30 EST on March 9 is already March 10 in UTC.
	local := time.Date(2025, 3, 9, 23, 30, 0, 0, est)
	assert.Equal(t, day(2025, 3, 10), DayUTC(local))
}
