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

// masteredIntervalDays is the SM-2 interval at or beyond which a card counts
// as mastered in aggregate statistics (three weeks).
const masteredIntervalDays = 21

// PostgresDeckStore implements store.DeckStore using PostgreSQL.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

// NewPostgresDeckStore creates a new PostgresDeckStore.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// WithTx returns a DeckStore bound to the provided transaction.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

// Create saves a new deck.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO decks (
			id, learner_id, title, title_fr, description, description_fr,
			cefr_level, category, card_count, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		deck.ID,
		deck.LearnerID,
		deck.Title,
		deck.TitleFr,
		deck.Description,
		deck.DescriptionFr,
		deck.CEFRLevel,
		deck.Category,
		deck.CardCount,
		deck.CreatedAt,
		deck.UpdatedAt,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to insert deck",
			slog.String("deck_id", deck.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// GetForLearner retrieves a deck by ID, scoped to the owning learner.
func (s *PostgresDeckStore) GetForLearner(ctx context.Context, learnerID, deckID uuid.UUID) (*domain.Deck, error) {
	query := `
		SELECT id, learner_id, title, title_fr, description, description_fr,
		       cefr_level, category, card_count, created_at, updated_at
		FROM decks
		WHERE id = $1 AND learner_id = $2
	`
	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, query, deckID, learnerID).Scan(
		&deck.ID,
		&deck.LearnerID,
		&deck.Title,
		&deck.TitleFr,
		&deck.Description,
		&deck.DescriptionFr,
		&deck.CEFRLevel,
		&deck.Category,
		&deck.CardCount,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		return nil, MapError(err)
	}

	return &deck, nil
}

// ListByLearner returns all decks owned by the learner, most recently
// updated first.
func (s *PostgresDeckStore) ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.Deck, error) {
	query := `
		SELECT id, learner_id, title, title_fr, description, description_fr,
		       cefr_level, category, card_count, created_at, updated_at
		FROM decks
		WHERE learner_id = $1
		ORDER BY updated_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	decks := make([]*domain.Deck, 0)
	for rows.Next() {
		var deck domain.Deck
		if err := rows.Scan(
			&deck.ID,
			&deck.LearnerID,
			&deck.Title,
			&deck.TitleFr,
			&deck.Description,
			&deck.DescriptionFr,
			&deck.CEFRLevel,
			&deck.Category,
			&deck.CardCount,
			&deck.CreatedAt,
			&deck.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		decks = append(decks, &deck)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return decks, nil
}

// Delete removes a deck; its cards go with it via ON DELETE CASCADE.
func (s *PostgresDeckStore) Delete(ctx context.Context, deckID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, deckID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

// RefreshCardCount recomputes the denormalized card count for a deck.
func (s *PostgresDeckStore) RefreshCardCount(ctx context.Context, deckID uuid.UUID) error {
	query := `
		UPDATE decks
		SET card_count = (SELECT COUNT(*) FROM cards WHERE deck_id = $1),
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, deckID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

// Stats returns the learner's flashcard totals at the given due cutoff.
func (s *PostgresDeckStore) Stats(ctx context.Context, learnerID uuid.UUID, dueBefore time.Time) (*store.FlashcardStats, error) {
	query := `
		SELECT
			COUNT(DISTINCT d.id),
			COUNT(c.id),
			COUNT(c.id) FILTER (WHERE c.next_review_at <= $2),
			COUNT(c.id) FILTER (WHERE c.interval_days >= $3)
		FROM decks d
		LEFT JOIN cards c ON c.deck_id = d.id
		WHERE d.learner_id = $1
	`
	var stats store.FlashcardStats
	err := s.db.QueryRowContext(ctx, query, learnerID, dueBefore, masteredIntervalDays).Scan(
		&stats.TotalDecks,
		&stats.TotalCards,
		&stats.DueCards,
		&stats.Mastered,
	)
	if err != nil {
		return nil, MapError(err)
	}

	return &stats, nil
}

// MasteryByDeck returns the mastery aggregate for each of the learner's
// decks, ordered by title.
func (s *PostgresDeckStore) MasteryByDeck(ctx context.Context, learnerID uuid.UUID) ([]store.DeckMastery, error) {
	query := `
		SELECT d.id, d.title,
		       COALESCE(ROUND(
		           100.0 * COUNT(c.id) FILTER (WHERE c.interval_days >= $2)
		           / NULLIF(COUNT(c.id), 0)
		       ), 0)::int
		FROM decks d
		LEFT JOIN cards c ON c.deck_id = d.id
		WHERE d.learner_id = $1
		GROUP BY d.id, d.title
		ORDER BY d.title, d.id
	`
	rows, err := s.db.QueryContext(ctx, query, learnerID, masteredIntervalDays)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]store.DeckMastery, 0)
	for rows.Next() {
		var m store.DeckMastery
		if err := rows.Scan(&m.DeckID, &m.Title, &m.Mastery); err != nil {
			return nil, MapError(err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return results, nil
}
