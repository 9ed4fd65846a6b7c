package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Gamification ledger validation errors
var (
	// ErrStudyDayLearnerIDEmpty is returned when a study day's learner ID is empty or nil.
	ErrStudyDayLearnerIDEmpty = errors.New("study day learner ID cannot be empty")

	// ErrNegativeActivity is returned when an activity counter is negative.
	ErrNegativeActivity = errors.New("activity counters cannot be negative")

	// ErrXpLedgerLearnerIDEmpty is returned when an XP ledger's learner ID is empty or nil.
	ErrXpLedgerLearnerIDEmpty = errors.New("xp ledger learner ID cannot be empty")

	// ErrNegativeTotalXp is returned when a ledger's total XP is negative.
	ErrNegativeTotalXp = errors.New("total XP cannot be negative")

	// ErrStreakInvariant is returned when the longest streak is below the current streak.
	ErrStreakInvariant = errors.New("longest streak cannot be less than current streak")
)

// StudyDay is the activity ledger entry for one (learner, UTC calendar day)
// pair. At most one row exists per pair; activity recorded later the same
// day accumulates into the existing row.
type StudyDay struct {
	LearnerID       uuid.UUID `json:"learner_id"`
	StudyDate       time.Time `json:"study_date"` // midnight UTC
	ItemsReviewed   int       `json:"items_reviewed"`
	CorrectCount    int       `json:"correct_count"`
	DurationSeconds int       `json:"duration_seconds"`
}

// Validate checks if the StudyDay has valid data.
func (d *StudyDay) Validate() error {
	if d.LearnerID == uuid.Nil {
		return ErrStudyDayLearnerIDEmpty
	}

	if d.ItemsReviewed < 0 || d.CorrectCount < 0 || d.DurationSeconds < 0 {
		return ErrNegativeActivity
	}

	return nil
}

// XpLedger is the per-learner gamification summary row: cumulative XP and
// the streak counters. LastActivityDate is the zero time until the learner's
// first qualifying activity.
type XpLedger struct {
	LearnerID         uuid.UUID `json:"learner_id"`
	TotalXp           int       `json:"total_xp"`
	CurrentStreakDays int       `json:"current_streak_days"`
	LongestStreakDays int       `json:"longest_streak_days"`
	LastActivityDate  time.Time `json:"last_activity_date"` // midnight UTC
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewXpLedger creates an empty ledger for a learner.
func NewXpLedger(learnerID uuid.UUID, now time.Time) (*XpLedger, error) {
	ledger := &XpLedger{
		LearnerID: learnerID,
		UpdatedAt: now,
	}

	if err := ledger.Validate(); err != nil {
		return nil, err
	}

	return ledger, nil
}

// Validate checks the XpLedger invariants.
func (l *XpLedger) Validate() error {
	if l.LearnerID == uuid.Nil {
		return ErrXpLedgerLearnerIDEmpty
	}

	if l.TotalXp < 0 {
		return ErrNegativeTotalXp
	}

	if l.LongestStreakDays < l.CurrentStreakDays {
		return ErrStreakInvariant
	}

	return nil
}

// XpTransaction is one append-only entry in a learner's XP audit log. The
// sum of all transaction amounts for a learner always equals the ledger's
// TotalXp. Transactions are never mutated or deleted.
type XpTransaction struct {
	ID            uuid.UUID `json:"id"`
	LearnerID     uuid.UUID `json:"learner_id"`
	Amount        int       `json:"amount"`
	Reason        string    `json:"reason"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   uuid.UUID `json:"reference_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Badge is a one-time achievement awarded to a learner, e.g. for reaching
// a streak threshold. The (learner, badge type) pair is unique.
type Badge struct {
	ID          uuid.UUID `json:"id"`
	LearnerID   uuid.UUID `json:"learner_id"`
	BadgeType   string    `json:"badge_type"`
	Title       string    `json:"title"`
	TitleFr     string    `json:"title_fr,omitempty"`
	Description string    `json:"description,omitempty"`
	AwardedAt   time.Time `json:"awarded_at"`
}
