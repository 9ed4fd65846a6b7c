// Package review orchestrates decks, flashcards and review submission. The
// scheduling math itself lives in the pure srs package; this service loads
// state, applies the scheduler and persists the result, then feeds the
// gamification side-channel on a best-effort basis.
package review

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
	"github.com/lingueefy/review-engine/internal/domain/srs"
	"github.com/lingueefy/review-engine/internal/service/progress"
	"github.com/lingueefy/review-engine/internal/store"
)

// DefaultDueLimit caps a due-cards query when the caller does not specify a
// limit.
const DefaultDueLimit = 20

// MaxDueLimit is the hard ceiling on a due-cards query.
const MaxDueLimit = 100

// ProgressRecorder is the gamification side-channel consumed after a review
// has been persisted. Failures on this interface are logged and swallowed;
// the review itself has already committed.
type ProgressRecorder interface {
	RecordActivity(ctx context.Context, learnerID uuid.UUID, activity progress.Activity) (*progress.ActivityResult, error)
	AwardXp(ctx context.Context, learnerID uuid.UUID, reason gamify.Reason, referenceType string, referenceID uuid.UUID) (*progress.AwardResult, error)
}

// CreateDeckInput carries the optional deck attributes beyond the title.
type CreateDeckInput struct {
	Title         string
	TitleFr       string
	Description   string
	DescriptionFr string
	CEFRLevel     string
	Category      string
}

// CreateCardInput carries a new card's content.
type CreateCardInput struct {
	Front    string
	Back     string
	Hint     string
	AudioURL string
	ImageURL string
}

// ReviewResult reports the outcome of one review submission.
type ReviewResult struct {
	Card     *domain.Card            `json:"card"`
	Xp       *progress.AwardResult   `json:"xp,omitempty"`
	Activity *progress.ActivityResult `json:"activity,omitempty"`
}

// Service implements deck, card and review orchestration.
type Service struct {
	db        *sql.DB
	decks     store.DeckStore
	cards     store.CardStore
	scheduler srs.Service
	progress  ProgressRecorder
	logger    *slog.Logger
	nowFunc   func() time.Time
}

// NewService creates a review Service. The progress recorder may be nil, in
// which case reviews persist scheduling state without gamification updates.
func NewService(
	db *sql.DB,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	scheduler srs.Service,
	recorder ProgressRecorder,
	logger *slog.Logger,
) (*Service, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if deckStore == nil {
		return nil, errors.New("deck store cannot be nil")
	}
	if cardStore == nil {
		return nil, errors.New("card store cannot be nil")
	}
	if scheduler == nil {
		return nil, errors.New("scheduler cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Service{
		db:        db,
		decks:     deckStore,
		cards:     cardStore,
		scheduler: scheduler,
		progress:  recorder,
		logger:    logger.With(slog.String("component", "review_service")),
		nowFunc:   time.Now,
	}, nil
}

// WithNowFunc overrides the service's clock. Intended for tests.
func (s *Service) WithNowFunc(now func() time.Time) *Service {
	s.nowFunc = now
	return s
}

// CreateDeck creates a new deck for the learner.
func (s *Service) CreateDeck(ctx context.Context, learnerID uuid.UUID, input CreateDeckInput) (*domain.Deck, error) {
	deck, err := domain.NewDeck(learnerID, input.Title, s.nowFunc())
	if err != nil {
		return nil, err
	}

	deck.TitleFr = input.TitleFr
	deck.Description = input.Description
	deck.DescriptionFr = input.DescriptionFr
	if input.CEFRLevel != "" {
		deck.CEFRLevel = domain.CEFRLevel(input.CEFRLevel)
	}
	if input.Category != "" {
		deck.Category = input.Category
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}

	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("learner_id", learnerID.String()))
	return deck, nil
}

// GetDeck retrieves one of the learner's decks.
func (s *Service) GetDeck(ctx context.Context, learnerID, deckID uuid.UUID) (*domain.Deck, error) {
	return s.decks.GetForLearner(ctx, learnerID, deckID)
}

// ListDecks returns all of the learner's decks.
func (s *Service) ListDecks(ctx context.Context, learnerID uuid.UUID) ([]*domain.Deck, error) {
	return s.decks.ListByLearner(ctx, learnerID)
}

// DeleteDeck removes a deck and all of its cards. Returns
// store.ErrDeckNotFound when the deck does not exist or belongs to another
// learner.
func (s *Service) DeleteDeck(ctx context.Context, learnerID, deckID uuid.UUID) error {
	// Ownership check first; Delete itself is keyed by ID only.
	if _, err := s.decks.GetForLearner(ctx, learnerID, deckID); err != nil {
		return err
	}

	if err := s.decks.Delete(ctx, deckID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "deck deleted",
		slog.String("deck_id", deckID.String()),
		slog.String("learner_id", learnerID.String()))
	return nil
}

// CreateCard adds a card to one of the learner's decks. The new card is due
// immediately with default scheduling state.
func (s *Service) CreateCard(ctx context.Context, learnerID, deckID uuid.UUID, input CreateCardInput) (*domain.Card, error) {
	if _, err := s.decks.GetForLearner(ctx, learnerID, deckID); err != nil {
		return nil, err
	}

	card, err := domain.NewCard(deckID, input.Front, input.Back, s.nowFunc())
	if err != nil {
		return nil, err
	}
	card.Hint = input.Hint
	card.AudioURL = input.AudioURL
	card.ImageURL = input.ImageURL

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.cards.WithTx(tx).Create(ctx, card); err != nil {
			return err
		}
		return s.decks.WithTx(tx).RefreshCardCount(ctx, deckID)
	})
	if err != nil {
		return nil, err
	}

	return card, nil
}

// ListCards returns all cards in one of the learner's decks.
func (s *Service) ListCards(ctx context.Context, learnerID, deckID uuid.UUID) ([]*domain.Card, error) {
	if _, err := s.decks.GetForLearner(ctx, learnerID, deckID); err != nil {
		return nil, err
	}
	return s.cards.ListByDeck(ctx, deckID)
}

// DeleteCard removes a card from one of the learner's decks. Deletion is
// idempotent: deleting an already-deleted card succeeds.
func (s *Service) DeleteCard(ctx context.Context, learnerID, cardID uuid.UUID) error {
	card, err := s.cards.GetForLearner(ctx, learnerID, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.cards.WithTx(tx).Delete(ctx, cardID); err != nil {
			// Lost a race with another delete; the outcome is the same.
			if store.IsNotFoundError(err) {
				return nil
			}
			return err
		}
		return s.decks.WithTx(tx).RefreshCardCount(ctx, card.DeckID)
	})
}

// DueCards returns the learner's cards due for review now, most overdue
// first. A non-nil deckID restricts the queue to one deck.
func (s *Service) DueCards(ctx context.Context, learnerID uuid.UUID, deckID *uuid.UUID, limit int) ([]*domain.Card, error) {
	if limit <= 0 {
		limit = DefaultDueLimit
	}
	if limit > MaxDueLimit {
		limit = MaxDueLimit
	}

	if deckID != nil {
		if _, err := s.decks.GetForLearner(ctx, learnerID, *deckID); err != nil {
			return nil, err
		}
	}

	return s.cards.ListDue(ctx, learnerID, deckID, s.nowFunc(), limit)
}

// SubmitReview grades one card with a 0..5 quality rating, persists the
// card's next schedule and feeds the gamification side-channel. The schedule
// update is the operation's contract; activity and XP updates run after the
// commit and their failure is logged, never surfaced.
func (s *Service) SubmitReview(
	ctx context.Context,
	learnerID, cardID uuid.UUID,
	quality int,
	durationSeconds int,
) (*ReviewResult, error) {
	card, err := s.cards.GetForLearner(ctx, learnerID, cardID)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	next, err := s.scheduler.ReviewCard(card.Schedule, quality, now)
	if err != nil {
		return nil, err
	}

	if err := s.cards.UpdateSchedule(ctx, cardID, next); err != nil {
		return nil, fmt.Errorf("failed to persist schedule: %w", err)
	}
	card.Schedule = next

	result := &ReviewResult{Card: card}
	if s.progress != nil {
		result.Activity, result.Xp = s.recordProgress(ctx, learnerID, cardID, quality, durationSeconds)
	}

	return result, nil
}

// Stats returns the learner's flashcard totals.
func (s *Service) Stats(ctx context.Context, learnerID uuid.UUID) (*store.FlashcardStats, error) {
	return s.decks.Stats(ctx, learnerID, s.nowFunc())
}

// recordProgress runs the best-effort gamification updates for one graded
// review.
func (s *Service) recordProgress(
	ctx context.Context,
	learnerID, cardID uuid.UUID,
	quality, durationSeconds int,
) (*progress.ActivityResult, *progress.AwardResult) {
	correct := 0
	if quality >= srs.PassingQuality {
		correct = 1
	}

	activity, err := s.progress.RecordActivity(ctx, learnerID, progress.Activity{
		ItemsReviewed:   1,
		CorrectCount:    correct,
		DurationSeconds: durationSeconds,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record review activity",
			slog.String("learner_id", learnerID.String()),
			slog.String("error", err.Error()))
	}

	award, err := s.progress.AwardXp(ctx, learnerID, gamify.ReasonFlashcardReview, "card", cardID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to award review xp",
			slog.String("learner_id", learnerID.String()),
			slog.String("error", err.Error()))
	}

	return activity, award
}
