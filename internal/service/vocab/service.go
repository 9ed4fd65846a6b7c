// Package vocab manages a learner's personal vocabulary bank. Items are
// reviewed with a binary correct/incorrect outcome under the mastery-based
// policy in the srs package, in contrast to the 0..5 SM-2 flow for
// flashcards.
package vocab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
	"github.com/lingueefy/review-engine/internal/domain/gamify"
	"github.com/lingueefy/review-engine/internal/domain/srs"
	"github.com/lingueefy/review-engine/internal/service/progress"
	"github.com/lingueefy/review-engine/internal/service/review"
	"github.com/lingueefy/review-engine/internal/store"
)

// AddWordInput carries a new vocabulary item's attributes.
type AddWordInput struct {
	Word        string
	Translation string
	Language    string
	Context     string
	Category    string
	CEFRLevel   string
}

// ReviewWordResult reports the outcome of one vocabulary review.
type ReviewWordResult struct {
	Item     *domain.VocabItem        `json:"item"`
	Xp       *progress.AwardResult    `json:"xp,omitempty"`
	Activity *progress.ActivityResult `json:"activity,omitempty"`
}

// Service implements the vocabulary bank operations.
type Service struct {
	items     store.VocabStore
	scheduler srs.Service
	progress  review.ProgressRecorder
	logger    *slog.Logger
	nowFunc   func() time.Time
}

// NewService creates a vocab Service. The progress recorder may be nil, in
// which case reviews persist item state without gamification updates.
func NewService(
	vocabStore store.VocabStore,
	scheduler srs.Service,
	recorder review.ProgressRecorder,
	logger *slog.Logger,
) (*Service, error) {
	if vocabStore == nil {
		return nil, errors.New("vocab store cannot be nil")
	}
	if scheduler == nil {
		return nil, errors.New("scheduler cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Service{
		items:     vocabStore,
		scheduler: scheduler,
		progress:  recorder,
		logger:    logger.With(slog.String("component", "vocab_service")),
		nowFunc:   time.Now,
	}, nil
}

// WithNowFunc overrides the service's clock. Intended for tests.
func (s *Service) WithNowFunc(now func() time.Time) *Service {
	s.nowFunc = now
	return s
}

// AddWord adds a word to the learner's vocabulary bank, due for review
// immediately.
func (s *Service) AddWord(ctx context.Context, learnerID uuid.UUID, input AddWordInput) (*domain.VocabItem, error) {
	item, err := domain.NewVocabItem(learnerID, input.Word, input.Translation, s.nowFunc())
	if err != nil {
		return nil, err
	}

	if input.Language != "" {
		item.Language = input.Language
	}
	item.Context = input.Context
	if input.Category != "" {
		item.Category = input.Category
	}
	if input.CEFRLevel != "" {
		item.CEFRLevel = domain.CEFRLevel(input.CEFRLevel)
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "vocabulary item added",
		slog.String("item_id", item.ID.String()),
		slog.String("learner_id", learnerID.String()))
	return item, nil
}

// GetWord retrieves one of the learner's vocabulary items.
func (s *Service) GetWord(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.VocabItem, error) {
	return s.items.GetForLearner(ctx, learnerID, itemID)
}

// ListWords returns the learner's entire vocabulary bank, newest first.
func (s *Service) ListWords(ctx context.Context, learnerID uuid.UUID) ([]*domain.VocabItem, error) {
	return s.items.ListByLearner(ctx, learnerID)
}

// DueWords returns the learner's vocabulary items due for review now.
func (s *Service) DueWords(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.VocabItem, error) {
	if limit <= 0 {
		limit = review.DefaultDueLimit
	}
	if limit > review.MaxDueLimit {
		limit = review.MaxDueLimit
	}
	return s.items.ListDue(ctx, learnerID, s.nowFunc(), limit)
}

// ReviewWord grades one vocabulary item with a binary outcome, persists its
// updated counters and schedule, and feeds the gamification side-channel on
// a best-effort basis.
func (s *Service) ReviewWord(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
	correct bool,
	durationSeconds int,
) (*ReviewWordResult, error) {
	item, err := s.items.GetForLearner(ctx, learnerID, itemID)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	next, err := s.scheduler.ReviewVocab(item, correct, now)
	if err != nil {
		return nil, err
	}

	if err := s.items.UpdateReview(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to persist vocabulary review: %w", err)
	}

	result := &ReviewWordResult{Item: next}
	if s.progress != nil {
		correctCount := 0
		if correct {
			correctCount = 1
		}

		activity, err := s.progress.RecordActivity(ctx, learnerID, progress.Activity{
			ItemsReviewed:   1,
			CorrectCount:    correctCount,
			DurationSeconds: durationSeconds,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "failed to record vocabulary activity",
				slog.String("learner_id", learnerID.String()),
				slog.String("error", err.Error()))
		}
		result.Activity = activity

		award, err := s.progress.AwardXp(ctx, learnerID, gamify.ReasonVocabQuiz, "vocab_item", itemID)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to award vocabulary xp",
				slog.String("learner_id", learnerID.String()),
				slog.String("error", err.Error()))
		}
		result.Xp = award
	}

	return result, nil
}

// DeleteWord removes a vocabulary item. Deletion is idempotent: removing an
// absent item succeeds.
func (s *Service) DeleteWord(ctx context.Context, learnerID, itemID uuid.UUID) error {
	deleted, err := s.items.Delete(ctx, learnerID, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		s.logger.DebugContext(ctx, "vocabulary item already absent",
			slog.String("item_id", itemID.String()))
	}
	return nil
}

// Stats returns the learner's vocabulary totals.
func (s *Service) Stats(ctx context.Context, learnerID uuid.UUID) (*store.VocabStats, error) {
	return s.items.Stats(ctx, learnerID, s.nowFunc())
}
