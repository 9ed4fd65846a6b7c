// Package gamify holds the pure gamification rules: the consecutive-day
// streak transition, the XP reason→amount table, the level threshold table
// and the streak badge thresholds. Like srs, it performs no I/O; the
// progress service persists what these functions compute.
package gamify

import "time"

// StreakState is the streak portion of a learner's XP ledger.
// LastActivity is the zero time before the first qualifying activity.
type StreakState struct {
	Current      int
	Longest      int
	LastActivity time.Time
}

// DayUTC truncates t to midnight UTC. All day-boundary arithmetic in the
// engine goes through this so that streaks are deterministic regardless of
// server timezone.
func DayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AdvanceStreak applies the day-granularity streak transition for
// qualifying activity at time now:
//
//   - activity already recorded today: no change (idempotent, so two
//     concurrent reviews on the same day cannot double-increment)
//   - last activity was yesterday: the streak extends by one
//   - otherwise (gap of two or more days, or first ever activity): reset to 1
//
// Longest is raised to match Current after every transition, and
// LastActivity always becomes today.
func AdvanceStreak(s StreakState, now time.Time) StreakState {
	today := DayUTC(now)

	var last time.Time
	if !s.LastActivity.IsZero() {
		last = DayUTC(s.LastActivity)
	}

	next := s
	switch {
	case last.Equal(today):
		// Already counted today.
	case !last.IsZero() && last.Equal(today.AddDate(0, 0, -1)):
		next.Current++
	default:
		next.Current = 1
	}

	if next.Longest < next.Current {
		next.Longest = next.Current
	}
	next.LastActivity = today

	return next
}
