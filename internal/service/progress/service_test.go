package progress_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
	"github.com/lingueefy/review-engine/internal/domain/gamify"
	"github.com/lingueefy/review-engine/internal/mocks"
	"github.com/lingueefy/review-engine/internal/service/progress"
	"github.com/lingueefy/review-engine/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, progressStore *mocks.MemoryProgressStore, now time.Time) *progress.Service {
	t.Helper()

	deckStore, _ := mocks.NewMemoryFlashcardStores()
	svc, err := progress.NewService(
		mocks.NewTxDB(),
		progressStore,
		deckStore,
		mocks.NewMemoryVocabStore(),
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	return svc.WithNowFunc(func() time.Time { return now })
}

func TestRecordActivityStartsStreak(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	progressStore := mocks.NewMemoryProgressStore()
	svc := newTestService(t, progressStore, now)
	learnerID := uuid.New()

	result, err := svc.RecordActivity(context.Background(), learnerID, progress.Activity{
		ItemsReviewed:   3,
		CorrectCount:    2,
		DurationSeconds: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CurrentStreakDays)
	assert.Equal(t, 1, result.LongestStreakDays)
	assert.True(t, result.StreakExtended)

	days, err := progressStore.RecentStudyDays(context.Background(), learnerID, 10)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 3, days[0].ItemsReviewed)
	assert.Equal(t, gamify.DayUTC(now), days[0].StudyDate)

	ledger, err := progressStore.GetLedger(context.Background(), learnerID)
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.CurrentStreakDays)
	assert.Equal(t, gamify.DayUTC(now), ledger.LastActivityDate)
}

func TestRecordActivitySameDayAccumulatesWithoutDoubleCount(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	progressStore := mocks.NewMemoryProgressStore()
	svc := newTestService(t, progressStore, now)
	learnerID := uuid.New()

	_, err := svc.RecordActivity(context.Background(), learnerID, progress.Activity{ItemsReviewed: 1, CorrectCount: 1})
	require.NoError(t, err)

	result, err := svc.RecordActivity(context.Background(), learnerID, progress.Activity{ItemsReviewed: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CurrentStreakDays, "second activity today must not double-increment")
	assert.False(t, result.StreakExtended)

	days, err := progressStore.RecentStudyDays(context.Background(), learnerID, 10)
	require.NoError(t, err)
	require.Len(t, days, 1, "one row per learner per day")
	assert.Equal(t, 3, days[0].ItemsReviewed)
	assert.Equal(t, 1, days[0].CorrectCount)
}

func TestRecordActivityAwardsStreakBadgeOnce(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	progressStore := mocks.NewMemoryProgressStore()
	svc := newTestService(t, progressStore, now)
	learnerID := uuid.New()

	// Two consecutive days already on the books.
	require.NoError(t, progressStore.CreateLedger(context.Background(), &domain.XpLedger{
		LearnerID:         learnerID,
		CurrentStreakDays: 2,
		LongestStreakDays: 2,
		LastActivityDate:  gamify.DayUTC(now.AddDate(0, 0, -1)),
		UpdatedAt:         now,
	}))

	result, err := svc.RecordActivity(context.Background(), learnerID, progress.Activity{ItemsReviewed: 1})
	require.NoError(t, err)

	assert.Equal(t, 3, result.CurrentStreakDays)
	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "streak_3", result.NewBadges[0].BadgeType)

	// Same day again: streak unchanged, no badge re-awarded.
	again, err := svc.RecordActivity(context.Background(), learnerID, progress.Activity{ItemsReviewed: 1})
	require.NoError(t, err)
	assert.Empty(t, again.NewBadges)
}

func TestAwardXpAppendsTransaction(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	progressStore := mocks.NewMemoryProgressStore()
	svc := newTestService(t, progressStore, now)
	learnerID := uuid.New()

	result, err := svc.AwardXp(context.Background(), learnerID, gamify.ReasonFlashcardReview, "card", uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 5, result.Amount)
	assert.Equal(t, 5, result.TotalXp)
	assert.Equal(t, 1, result.Level)
	assert.False(t, result.LeveledUp)

	txns, err := progressStore.ListTransactions(context.Background(), learnerID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, string(gamify.ReasonFlashcardReview), txns[0].Reason)
	assert.Equal(t, 5, txns[0].Amount)

	// Ledger and transaction log agree.
	sum, err := svc.AuditTotal(context.Background(), learnerID)
	require.NoError(t, err)
	assert.Equal(t, 5, sum)
}

func TestAwardXpLevelUpBonus(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	progressStore := mocks.NewMemoryProgressStore()
	svc := newTestService(t, progressStore, now)
	learnerID := uuid.New()

	// 95 XP on the books, backed by a matching transaction.
	require.NoError(t, progressStore.CreateLedger(context.Background(), &domain.XpLedger{
		LearnerID: learnerID,
		TotalXp:   95,
		UpdatedAt: now,
	}))
	require.NoError(t, progressStore.InsertTransaction(context.Background(), &domain.XpTransaction{
		ID:        uuid.New(),
		LearnerID: learnerID,
		Amount:    95,
		Reason:    string(gamify.ReasonLessonComplete),
		CreatedAt: now.Add(-time.Hour),
	}))

	result, err := svc.AwardXp(context.Background(), learnerID, gamify.ReasonFlashcardReview, "card", uuid.New())
	require.NoError(t, err)

	// 95 + 5 crosses the level-2 threshold at 100; the one-shot bonus lands
	// in the same transaction.
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 50, result.BonusAmount)
	assert.Equal(t, 150, result.TotalXp)
	assert.Equal(t, 2, result.Level)

	txns, err := progressStore.ListTransactions(context.Background(), learnerID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txns, 3)

	sum, err := svc.AuditTotal(context.Background(), learnerID)
	require.NoError(t, err)
	assert.Equal(t, 150, sum)
}

func TestAwardXpRejectsUnknownReason(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, mocks.NewMemoryProgressStore(), now)

	_, err := svc.AwardXp(context.Background(), uuid.New(), gamify.Reason("hacked_reason"), "", uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrInvalidXpReason)
}

func TestAuditTotalDetectsMismatch(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	progressStore := mocks.NewMemoryProgressStore()
	svc := newTestService(t, progressStore, now)
	learnerID := uuid.New()

	require.NoError(t, progressStore.CreateLedger(context.Background(), &domain.XpLedger{
		LearnerID: learnerID,
		TotalXp:   100,
		UpdatedAt: now,
	}))

	_, err := svc.AuditTotal(context.Background(), learnerID)
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestProgressForNewLearnerIsEmpty(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, mocks.NewMemoryProgressStore(), now)

	summary, err := svc.Progress(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalXp)
	assert.Equal(t, 1, summary.Level.Level)
	assert.Equal(t, 0, summary.CurrentStreakDays)
	assert.Empty(t, summary.RecentDays)
	assert.Empty(t, summary.Badges)
	require.NotNil(t, summary.NextLevel)
	assert.Equal(t, 2, summary.NextLevel.Level)
}

func TestXpHistoryPagination(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	progressStore := mocks.NewMemoryProgressStore()
	svc := newTestService(t, progressStore, now)
	learnerID := uuid.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, progressStore.InsertTransaction(context.Background(), &domain.XpTransaction{
			ID:        uuid.New(),
			LearnerID: learnerID,
			Amount:    5,
			Reason:    string(gamify.ReasonFlashcardReview),
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, err := svc.XpHistory(context.Background(), learnerID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	// Newest first.
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	rest, err := svc.XpHistory(context.Background(), learnerID, 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}
