// Package progress implements the gamification ledger: study-day activity,
// the consecutive-day streak, the append-only XP transaction log and level
// computation. All streak and XP updates for one learner serialize on the
// learner's XP ledger row, which writers lock with SELECT ... FOR UPDATE
// inside a transaction.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
	"github.com/lingueefy/review-engine/internal/domain/gamify"
	"github.com/lingueefy/review-engine/internal/events"
	"github.com/lingueefy/review-engine/internal/store"
)

// Activity describes one batch of qualifying study activity.
type Activity struct {
	ItemsReviewed   int
	CorrectCount    int
	DurationSeconds int
}

// ActivityResult reports the streak state after recording activity and any
// badges the transition earned.
type ActivityResult struct {
	CurrentStreakDays int            `json:"current_streak_days"`
	LongestStreakDays int            `json:"longest_streak_days"`
	StreakExtended    bool           `json:"streak_extended"`
	NewBadges         []domain.Badge `json:"new_badges,omitempty"`
}

// AwardResult reports the outcome of one XP award.
type AwardResult struct {
	Amount      int  `json:"amount"`
	BonusAmount int  `json:"bonus_amount,omitempty"`
	TotalXp     int  `json:"total_xp"`
	Level       int  `json:"level"`
	LeveledUp   bool `json:"leveled_up"`
}

// Summary is the aggregate progress view for one learner.
type Summary struct {
	TotalXp           int                  `json:"total_xp"`
	Level             gamify.Level         `json:"level"`
	NextLevel         *gamify.Level        `json:"next_level,omitempty"`
	LevelProgress     int                  `json:"level_progress"` // percent toward next level
	CurrentStreakDays int                  `json:"current_streak_days"`
	LongestStreakDays int                  `json:"longest_streak_days"`
	RecentDays        []*domain.StudyDay   `json:"recent_days"`
	Badges            []*domain.Badge      `json:"badges"`
	Flashcards        *store.FlashcardStats `json:"flashcards"`
	Vocabulary        *store.VocabStats    `json:"vocabulary"`
	MasteryByDeck     []store.DeckMastery  `json:"mastery_by_deck"`
}

// recentDayWindow is how many study days the summary includes.
const recentDayWindow = 30

// Service orchestrates gamification state changes.
type Service struct {
	db       *sql.DB
	progress store.ProgressStore
	decks    store.DeckStore
	vocab    store.VocabStore
	emitter  events.Emitter
	logger   *slog.Logger
	nowFunc  func() time.Time
}

// NewService creates a progress Service. The emitter may be nil, in which
// case no events are published.
func NewService(
	db *sql.DB,
	progressStore store.ProgressStore,
	deckStore store.DeckStore,
	vocabStore store.VocabStore,
	emitter events.Emitter,
	logger *slog.Logger,
) (*Service, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if progressStore == nil {
		return nil, errors.New("progress store cannot be nil")
	}
	if deckStore == nil {
		return nil, errors.New("deck store cannot be nil")
	}
	if vocabStore == nil {
		return nil, errors.New("vocab store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}

	return &Service{
		db:       db,
		progress: progressStore,
		decks:    deckStore,
		vocab:    vocabStore,
		emitter:  emitter,
		logger:   logger.With(slog.String("component", "progress_service")),
		nowFunc:  time.Now,
	}, nil
}

// WithNowFunc overrides the service's clock. Intended for tests.
func (s *Service) WithNowFunc(now func() time.Time) *Service {
	s.nowFunc = now
	return s
}

// RecordActivity records qualifying study activity: it accumulates the
// learner's study-day row for today (UTC) and applies the streak transition.
// Recording twice on the same day accumulates counters but never
// double-increments the streak.
func (s *Service) RecordActivity(ctx context.Context, learnerID uuid.UUID, activity Activity) (*ActivityResult, error) {
	if learnerID == uuid.Nil {
		return nil, domain.ErrInvalidID
	}

	now := s.nowFunc()
	result := &ActivityResult{}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := s.progress.WithTx(tx)

		day := &domain.StudyDay{
			LearnerID:       learnerID,
			StudyDate:       gamify.DayUTC(now),
			ItemsReviewed:   activity.ItemsReviewed,
			CorrectCount:    activity.CorrectCount,
			DurationSeconds: activity.DurationSeconds,
		}
		if err := txProgress.UpsertStudyDay(ctx, day); err != nil {
			return fmt.Errorf("failed to upsert study day: %w", err)
		}

		ledger, err := s.lockOrCreateLedger(ctx, txProgress, learnerID, now)
		if err != nil {
			return err
		}

		before := ledger.CurrentStreakDays
		streak := gamify.AdvanceStreak(gamify.StreakState{
			Current:      ledger.CurrentStreakDays,
			Longest:      ledger.LongestStreakDays,
			LastActivity: ledger.LastActivityDate,
		}, now)

		ledger.CurrentStreakDays = streak.Current
		ledger.LongestStreakDays = streak.Longest
		ledger.LastActivityDate = streak.LastActivity
		ledger.UpdatedAt = now

		if err := txProgress.UpdateLedger(ctx, ledger); err != nil {
			return fmt.Errorf("failed to update ledger: %w", err)
		}

		badges, err := s.awardStreakBadges(ctx, txProgress, learnerID, streak.Current, now)
		if err != nil {
			return err
		}

		result.CurrentStreakDays = streak.Current
		result.LongestStreakDays = streak.Longest
		result.StreakExtended = streak.Current != before
		result.NewBadges = badges
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, badge := range result.NewBadges {
		s.emitter.Emit(ctx, events.Event{
			Type:      events.TypeBadgeAwarded,
			LearnerID: learnerID,
			BadgeType: badge.BadgeType,
		})
	}

	return result, nil
}

// AwardXp appends one XP transaction for the given reason and updates the
// learner's total. If the award pushes the learner over a level threshold, a
// one-shot level_up_bonus transaction is appended in the same database
// transaction; the bonus is derived from the pre-bonus total and never
// triggers a second bonus itself.
func (s *Service) AwardXp(
	ctx context.Context,
	learnerID uuid.UUID,
	reason gamify.Reason,
	referenceType string,
	referenceID uuid.UUID,
) (*AwardResult, error) {
	if learnerID == uuid.Nil {
		return nil, domain.ErrInvalidID
	}

	amount, err := gamify.RewardAmount(reason)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	result := &AwardResult{Amount: amount}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := s.progress.WithTx(tx)

		ledger, err := s.lockOrCreateLedger(ctx, txProgress, learnerID, now)
		if err != nil {
			return err
		}

		levelBefore := gamify.LevelForXp(ledger.TotalXp)

		if err := txProgress.InsertTransaction(ctx, &domain.XpTransaction{
			ID:            uuid.New(),
			LearnerID:     learnerID,
			Amount:        amount,
			Reason:        string(reason),
			ReferenceType: referenceType,
			ReferenceID:   referenceID,
			CreatedAt:     now,
		}); err != nil {
			return fmt.Errorf("failed to insert xp transaction: %w", err)
		}

		total := ledger.TotalXp + amount
		levelAfter := gamify.LevelForXp(total)

		// The bonus is decided by the pre-bonus total so it can never
		// cascade into a second bonus.
		if levelAfter.Level > levelBefore.Level && reason != gamify.ReasonLevelUpBonus {
			bonus, err := gamify.RewardAmount(gamify.ReasonLevelUpBonus)
			if err != nil {
				return err
			}
			if err := txProgress.InsertTransaction(ctx, &domain.XpTransaction{
				ID:            uuid.New(),
				LearnerID:     learnerID,
				Amount:        bonus,
				Reason:        string(gamify.ReasonLevelUpBonus),
				ReferenceType: "level",
				CreatedAt:     now,
			}); err != nil {
				return fmt.Errorf("failed to insert level-up bonus: %w", err)
			}
			total += bonus
			result.BonusAmount = bonus
			result.LeveledUp = true
		}

		ledger.TotalXp = total
		ledger.UpdatedAt = now
		if err := txProgress.UpdateLedger(ctx, ledger); err != nil {
			return fmt.Errorf("failed to update ledger: %w", err)
		}

		result.TotalXp = total
		result.Level = gamify.LevelForXp(total).Level
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.Event{
		Type:      events.TypeXpAwarded,
		LearnerID: learnerID,
		Amount:    result.Amount,
		Reason:    string(reason),
		TotalXp:   result.TotalXp,
		Level:     result.Level,
	})
	if result.LeveledUp {
		s.emitter.Emit(ctx, events.Event{
			Type:      events.TypeLevelUp,
			LearnerID: learnerID,
			TotalXp:   result.TotalXp,
			Level:     result.Level,
		})
	}

	return result, nil
}

// Progress assembles the learner's aggregate progress view: ledger, level,
// recent study days, badges and per-domain statistics.
func (s *Service) Progress(ctx context.Context, learnerID uuid.UUID) (*Summary, error) {
	if learnerID == uuid.Nil {
		return nil, domain.ErrInvalidID
	}

	now := s.nowFunc()

	ledger, err := s.progress.GetLedger(ctx, learnerID)
	if err != nil {
		if !errors.Is(err, store.ErrLedgerNotFound) {
			return nil, err
		}
		// No activity yet: an empty ledger, not an error.
		ledger = &domain.XpLedger{LearnerID: learnerID}
	}

	days, err := s.progress.RecentStudyDays(ctx, learnerID, recentDayWindow)
	if err != nil {
		return nil, err
	}

	badges, err := s.progress.ListBadges(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	flashStats, err := s.decks.Stats(ctx, learnerID, now)
	if err != nil {
		return nil, err
	}

	vocabStats, err := s.vocab.Stats(ctx, learnerID, now)
	if err != nil {
		return nil, err
	}

	mastery, err := s.decks.MasteryByDeck(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalXp:           ledger.TotalXp,
		Level:             gamify.LevelForXp(ledger.TotalXp),
		LevelProgress:     gamify.ProgressPercent(ledger.TotalXp),
		CurrentStreakDays: ledger.CurrentStreakDays,
		LongestStreakDays: ledger.LongestStreakDays,
		RecentDays:        days,
		Badges:            badges,
		Flashcards:        flashStats,
		Vocabulary:        vocabStats,
		MasteryByDeck:     mastery,
	}
	if next, ok := gamify.NextLevel(summary.Level.Level); ok {
		summary.NextLevel = &next
	}

	return summary, nil
}

// XpHistory returns a page of the learner's XP transaction log, newest first.
func (s *Service) XpHistory(ctx context.Context, learnerID uuid.UUID, limit, offset int) ([]*domain.XpTransaction, error) {
	if learnerID == uuid.Nil {
		return nil, domain.ErrInvalidID
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.progress.ListTransactions(ctx, learnerID, limit, offset)
}

// Leaderboard returns the top learners by total XP.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.progress.Leaderboard(ctx, limit)
}

// AuditTotal compares the ledger's TotalXp with the sum of the learner's XP
// transactions. The two must always agree; a mismatch indicates ledger
// corruption and is reported as a conflict.
func (s *Service) AuditTotal(ctx context.Context, learnerID uuid.UUID) (int, error) {
	ledger, err := s.progress.GetLedger(ctx, learnerID)
	if err != nil {
		return 0, err
	}

	sum, err := s.progress.SumTransactions(ctx, learnerID)
	if err != nil {
		return 0, err
	}

	if sum != ledger.TotalXp {
		return sum, fmt.Errorf("%w: ledger total %d does not match transaction sum %d",
			store.ErrConflict, ledger.TotalXp, sum)
	}
	return sum, nil
}

// lockOrCreateLedger loads the learner's ledger row under FOR UPDATE,
// creating it first if the learner has none yet. The create-then-lock dance
// is safe under concurrency: a racing insert loses on the primary key and we
// fall through to locking the winner's row.
func (s *Service) lockOrCreateLedger(
	ctx context.Context,
	txProgress store.ProgressStore,
	learnerID uuid.UUID,
	now time.Time,
) (*domain.XpLedger, error) {
	ledger, err := txProgress.GetLedgerForUpdate(ctx, learnerID)
	if err == nil {
		return ledger, nil
	}
	if !errors.Is(err, store.ErrLedgerNotFound) {
		return nil, fmt.Errorf("failed to lock ledger: %w", err)
	}

	fresh, err := domain.NewXpLedger(learnerID, now)
	if err != nil {
		return nil, err
	}
	if err := txProgress.CreateLedger(ctx, fresh); err != nil {
		if !store.IsDuplicateError(err) {
			return nil, fmt.Errorf("failed to create ledger: %w", err)
		}
	}

	ledger, err = txProgress.GetLedgerForUpdate(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock ledger after create: %w", err)
	}
	return ledger, nil
}

// awardStreakBadges inserts any streak badges the learner's current streak
// has reached but not yet earned.
func (s *Service) awardStreakBadges(
	ctx context.Context,
	txProgress store.ProgressStore,
	learnerID uuid.UUID,
	currentStreak int,
	now time.Time,
) ([]domain.Badge, error) {
	var awarded []domain.Badge
	for _, b := range gamify.StreakBadges {
		if currentStreak < b.Days {
			break
		}
		badge := domain.Badge{
			ID:        uuid.New(),
			LearnerID: learnerID,
			BadgeType: b.Type,
			Title:     b.Title,
			TitleFr:   b.TitleFr,
			AwardedAt: now,
		}
		inserted, err := txProgress.InsertBadgeIfAbsent(ctx, &badge)
		if err != nil {
			return nil, fmt.Errorf("failed to award badge %s: %w", b.Type, err)
		}
		if inserted {
			awarded = append(awarded, badge)
		}
	}
	return awarded, nil
}
