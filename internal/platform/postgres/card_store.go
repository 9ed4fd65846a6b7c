package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
	"github.com/lingueefy/review-engine/internal/store"
)

// PostgresCardStore implements store.CardStore using PostgreSQL.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.CardStore = (*PostgresCardStore)(nil)

// NewPostgresCardStore creates a new PostgresCardStore.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// WithTx returns a CardStore bound to the provided transaction.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

const cardColumns = `
	id, deck_id, front, back, hint, audio_url, image_url,
	ease_factor, interval_days, repetitions, next_review_at, last_reviewed_at,
	created_at
`

// Create saves a new card.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		card.ID,
		card.DeckID,
		card.Front,
		card.Back,
		card.Hint,
		card.AudioURL,
		card.ImageURL,
		card.Schedule.EaseFactor,
		card.Schedule.IntervalDays,
		card.Schedule.Repetitions,
		card.Schedule.NextReviewAt,
		nullableTime(card.Schedule.LastReviewedAt),
		card.CreatedAt,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to insert card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// GetForLearner retrieves a card by ID, scoped through its deck to the
// owning learner.
func (s *PostgresCardStore) GetForLearner(ctx context.Context, learnerID, cardID uuid.UUID) (*domain.Card, error) {
	query := `
		SELECT c.id, c.deck_id, c.front, c.back, c.hint, c.audio_url, c.image_url,
		       c.ease_factor, c.interval_days, c.repetitions, c.next_review_at,
		       c.last_reviewed_at, c.created_at
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		WHERE c.id = $1 AND d.learner_id = $2
	`
	card, err := scanCard(s.db.QueryRowContext(ctx, query, cardID, learnerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}
	return card, nil
}

// ListByDeck returns all cards in a deck, newest first.
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE deck_id = $1
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, MapError(err)
	}
	return collectCards(rows)
}

// ListDue returns up to limit cards due at or before dueBefore, most overdue
// first with card ID as the deterministic tie-break.
func (s *PostgresCardStore) ListDue(
	ctx context.Context,
	learnerID uuid.UUID,
	deckID *uuid.UUID,
	dueBefore time.Time,
	limit int,
) ([]*domain.Card, error) {
	query := `
		SELECT c.id, c.deck_id, c.front, c.back, c.hint, c.audio_url, c.image_url,
		       c.ease_factor, c.interval_days, c.repetitions, c.next_review_at,
		       c.last_reviewed_at, c.created_at
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		WHERE d.learner_id = $1
		  AND c.next_review_at <= $2
		  AND ($3::uuid IS NULL OR c.deck_id = $3)
		ORDER BY c.next_review_at ASC, c.id ASC
		LIMIT $4
	`
	rows, err := s.db.QueryContext(ctx, query, learnerID, dueBefore, deckID, limit)
	if err != nil {
		return nil, MapError(err)
	}
	return collectCards(rows)
}

// UpdateSchedule persists a card's new scheduling state.
func (s *PostgresCardStore) UpdateSchedule(ctx context.Context, cardID uuid.UUID, sched domain.Schedule) error {
	if err := sched.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cards
		SET ease_factor = $2,
		    interval_days = $3,
		    repetitions = $4,
		    next_review_at = $5,
		    last_reviewed_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		cardID,
		sched.EaseFactor,
		sched.IntervalDays,
		sched.Repetitions,
		sched.NextReviewAt,
		nullableTime(sched.LastReviewedAt),
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// Delete removes a card.
func (s *PostgresCardStore) Delete(ctx context.Context, cardID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, cardID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card         domain.Card
		lastReviewed sql.NullTime
	)
	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.Hint,
		&card.AudioURL,
		&card.ImageURL,
		&card.Schedule.EaseFactor,
		&card.Schedule.IntervalDays,
		&card.Schedule.Repetitions,
		&card.Schedule.NextReviewAt,
		&lastReviewed,
		&card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastReviewed.Valid {
		card.Schedule.LastReviewedAt = lastReviewed.Time
	}
	return &card, nil
}

func collectCards(rows *sql.Rows) ([]*domain.Card, error) {
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// nullableTime maps the domain's zero-time convention onto SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
