package gamify

import "github.com/lingueefy/review-engine/internal/domain"

// Reason is a reason code for an XP award. Every XpTransaction carries one.
type Reason string

// Known XP reason codes.
const (
	ReasonLessonComplete    Reason = "lesson_complete"
	ReasonQuizPass          Reason = "quiz_pass"
	ReasonQuizPerfect       Reason = "quiz_perfect"
	ReasonModuleComplete    Reason = "module_complete"
	ReasonCourseComplete    Reason = "course_complete"
	ReasonStreakBonus       Reason = "streak_bonus"
	ReasonDailyLogin        Reason = "daily_login"
	ReasonFirstLesson       Reason = "first_lesson"
	ReasonChallengeComplete Reason = "challenge_complete"
	ReasonReviewSubmitted   Reason = "review_submitted"
	ReasonNoteCreated       Reason = "note_created"
	ReasonExerciseComplete  Reason = "exercise_complete"
	ReasonSpeakingPractice  Reason = "speaking_practice"
	ReasonWritingSubmitted  Reason = "writing_submitted"
	ReasonMilestoneBonus    Reason = "milestone_bonus"
	ReasonLevelUpBonus      Reason = "level_up_bonus"
	ReasonReferralBonus     Reason = "referral_bonus"
	ReasonFlashcardReview   Reason = "flashcard_review"
	ReasonVocabQuiz         Reason = "vocab_quiz"
)

// xpRewards is the single source of truth for reason→amount. The same
// table used to be duplicated across handlers; keep it here only.
var xpRewards = map[Reason]int{
	ReasonLessonComplete:    10,
	ReasonQuizPass:          15,
	ReasonQuizPerfect:       25,
	ReasonModuleComplete:    50,
	ReasonCourseComplete:    200,
	ReasonStreakBonus:       5,
	ReasonDailyLogin:        5,
	ReasonFirstLesson:       20,
	ReasonChallengeComplete: 30,
	ReasonReviewSubmitted:   10,
	ReasonNoteCreated:       5,
	ReasonExerciseComplete:  8,
	ReasonSpeakingPractice:  12,
	ReasonWritingSubmitted:  15,
	ReasonMilestoneBonus:    100,
	ReasonLevelUpBonus:      50,
	ReasonReferralBonus:     100,
	ReasonFlashcardReview:   5,
	ReasonVocabQuiz:         10,
}

// RewardAmount returns the XP amount for a reason code, or
// domain.ErrInvalidXpReason for an unknown code.
func RewardAmount(reason Reason) (int, error) {
	amount, ok := xpRewards[reason]
	if !ok {
		return 0, domain.ErrInvalidXpReason
	}
	return amount, nil
}

// ValidReason reports whether the reason code is known.
func ValidReason(reason Reason) bool {
	_, ok := xpRewards[reason]
	return ok
}

// StreakBadge describes a badge awarded the first time a learner's current
// streak reaches Days.
type StreakBadge struct {
	Days    int
	Type    string
	Title   string
	TitleFr string
}

// StreakBadges lists the streak achievements, ordered by threshold.
var StreakBadges = []StreakBadge{
	{Days: 3, Type: "streak_3", Title: "3-Day Streak", TitleFr: "Série de 3 jours"},
	{Days: 7, Type: "streak_7", Title: "Week Warrior", TitleFr: "Guerrier de la semaine"},
	{Days: 14, Type: "streak_14", Title: "Two Week Champion", TitleFr: "Champion de deux semaines"},
	{Days: 30, Type: "streak_30", Title: "Monthly Master", TitleFr: "Maître mensuel"},
	{Days: 100, Type: "streak_100", Title: "Century Legend", TitleFr: "Légende du siècle"},
}
