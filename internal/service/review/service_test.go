package review_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
	"github.com/lingueefy/review-engine/internal/domain/gamify"
	"github.com/lingueefy/review-engine/internal/domain/srs"
	"github.com/lingueefy/review-engine/internal/mocks"
	"github.com/lingueefy/review-engine/internal/service/review"
	"github.com/lingueefy/review-engine/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *review.Service
	decks    *mocks.MemoryDeckStore
	cards    *mocks.MemoryCardStore
	recorder *mocks.MockProgressRecorder
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	decks, cards := mocks.NewMemoryFlashcardStores()
	recorder := &mocks.MockProgressRecorder{}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	svc, err := review.NewService(
		mocks.NewTxDB(),
		decks,
		cards,
		srs.NewService(),
		recorder,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	svc.WithNowFunc(func() time.Time { return now })

	return &fixture{svc: svc, decks: decks, cards: cards, recorder: recorder, now: now}
}

func (f *fixture) seedDeckAndCard(t *testing.T, learnerID uuid.UUID) (*domain.Deck, *domain.Card) {
	t.Helper()

	deck, err := f.svc.CreateDeck(context.Background(), learnerID, review.CreateDeckInput{Title: "Verbs"})
	require.NoError(t, err)

	card, err := f.svc.CreateCard(context.Background(), learnerID, deck.ID, review.CreateCardInput{
		Front: "parler",
		Back:  "to speak",
	})
	require.NoError(t, err)

	return deck, card
}

func TestCreateDeckDefaults(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	learnerID := uuid.New()

	deck, err := f.svc.CreateDeck(context.Background(), learnerID, review.CreateDeckInput{Title: "Basics"})
	require.NoError(t, err)

	assert.Equal(t, domain.CEFRLevelA1, deck.CEFRLevel)
	assert.Equal(t, "general", deck.Category)
	assert.Equal(t, 0, deck.CardCount)
}

func TestCreateDeckRejectsEmptyTitle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.CreateDeck(context.Background(), uuid.New(), review.CreateDeckInput{})
	assert.ErrorIs(t, err, domain.ErrDeckTitleEmpty)
}

func TestCreateCardRefreshesDeckCount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	learnerID := uuid.New()
	deck, card := f.seedDeckAndCard(t, learnerID)

	assert.Equal(t, domain.DefaultEaseFactor, card.Schedule.EaseFactor)
	assert.Equal(t, f.now, card.Schedule.NextReviewAt, "new cards are due immediately")

	stored, err := f.decks.GetForLearner(context.Background(), learnerID, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CardCount)
}

func TestCreateCardInForeignDeckFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	deck, _ := f.seedDeckAndCard(t, uuid.New())

	_, err := f.svc.CreateCard(context.Background(), uuid.New(), deck.ID, review.CreateCardInput{
		Front: "x", Back: "y",
	})
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestSubmitReviewUpdatesSchedule(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	learnerID := uuid.New()
	_, card := f.seedDeckAndCard(t, learnerID)

	result, err := f.svc.SubmitReview(context.Background(), learnerID, card.ID, 4, 30)
	require.NoError(t, err)

	sched := result.Card.Schedule
	assert.Equal(t, 1, sched.IntervalDays)
	assert.Equal(t, 1, sched.Repetitions)
	assert.InDelta(t, 2.5, sched.EaseFactor, 1e-9)
	assert.Equal(t, f.now.AddDate(0, 0, 1), sched.NextReviewAt)
	assert.Equal(t, f.now, sched.LastReviewedAt)

	// The persisted card matches the returned one.
	stored, err := f.cards.GetForLearner(context.Background(), learnerID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, sched, stored.Schedule)

	// Gamification side-channel fired with a correct answer.
	require.Len(t, f.recorder.Activities, 1)
	assert.Equal(t, 1, f.recorder.Activities[0].ItemsReviewed)
	assert.Equal(t, 1, f.recorder.Activities[0].CorrectCount)
	assert.Equal(t, 30, f.recorder.Activities[0].DurationSeconds)
	require.Len(t, f.recorder.Reasons, 1)
	assert.Equal(t, gamify.ReasonFlashcardReview, f.recorder.Reasons[0])
}

func TestSubmitReviewForgottenCountsIncorrect(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	learnerID := uuid.New()
	_, card := f.seedDeckAndCard(t, learnerID)

	result, err := f.svc.SubmitReview(context.Background(), learnerID, card.ID, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Card.Schedule.Repetitions)
	assert.Equal(t, 1, result.Card.Schedule.IntervalDays)
	require.Len(t, f.recorder.Activities, 1)
	assert.Equal(t, 0, f.recorder.Activities[0].CorrectCount)
}

func TestSubmitReviewRejectsOutOfRangeQuality(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	learnerID := uuid.New()
	_, card := f.seedDeckAndCard(t, learnerID)

	for _, q := range []int{-1, 6, 42} {
		_, err := f.svc.SubmitReview(context.Background(), learnerID, card.ID, q, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidQuality)
	}

	// The card's schedule is untouched and no progress calls were made.
	stored, err := f.cards.GetForLearner(context.Background(), learnerID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Schedule.Repetitions)
	assert.Empty(t, f.recorder.Activities)
}

func TestSubmitReviewSwallowsProgressFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	learnerID := uuid.New()
	_, card := f.seedDeckAndCard(t, learnerID)
	f.recorder.Err = errors.New("progress store down")

	result, err := f.svc.SubmitReview(context.Background(), learnerID, card.ID, 5, 0)
	require.NoError(t, err, "gamification failure must not fail the review")
	assert.Nil(t, result.Xp)
	assert.Equal(t, 1, result.Card.Schedule.Repetitions, "schedule update still committed")
}

func TestDueCardsOrderingAndLimit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	learnerID := uuid.New()
	deck, _ := f.seedDeckAndCard(t, learnerID)

	// Two more cards with staggered due times.
	for i := 1; i <= 2; i++ {
		card, err := domain.NewCard(deck.ID, "front", "back", f.now.Add(-time.Duration(i)*time.Hour))
		require.NoError(t, err)
		card.Schedule.NextReviewAt = f.now.Add(-time.Duration(i) * time.Hour)
		require.NoError(t, f.cards.Create(context.Background(), card))
	}

	due, err := f.svc.DueCards(context.Background(), learnerID, nil, 0)
	require.NoError(t, err)
	require.Len(t, due, 3)
	// Most overdue first.
	assert.True(t, due[0].Schedule.NextReviewAt.Before(due[1].Schedule.NextReviewAt))
	assert.True(t, due[1].Schedule.NextReviewAt.Before(due[2].Schedule.NextReviewAt))

	limited, err := f.svc.DueCards(context.Background(), learnerID, nil, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDueCardsExcludesFutureCards(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	learnerID := uuid.New()
	deck, card := f.seedDeckAndCard(t, learnerID)

	require.NoError(t, f.cards.UpdateSchedule(context.Background(), card.ID, domain.Schedule{
		EaseFactor:   2.5,
		IntervalDays: 6,
		Repetitions:  2,
		NextReviewAt: f.now.AddDate(0, 0, 6),
	}))

	due, err := f.svc.DueCards(context.Background(), learnerID, &deck.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDeleteCardIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	learnerID := uuid.New()
	deck, card := f.seedDeckAndCard(t, learnerID)

	require.NoError(t, f.svc.DeleteCard(context.Background(), learnerID, card.ID))
	require.NoError(t, f.svc.DeleteCard(context.Background(), learnerID, card.ID),
		"second delete of the same card succeeds")

	stored, err := f.decks.GetForLearner(context.Background(), learnerID, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CardCount)
}

func TestDeleteDeckScopedToOwner(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := uuid.New()
	deck, _ := f.seedDeckAndCard(t, owner)

	err := f.svc.DeleteDeck(context.Background(), uuid.New(), deck.ID)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)

	require.NoError(t, f.svc.DeleteDeck(context.Background(), owner, deck.ID))

	// Cards went with the deck.
	cards, err := f.cards.ListByDeck(context.Background(), deck.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)
}
