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

// PostgresVocabStore implements store.VocabStore using PostgreSQL.
type PostgresVocabStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.VocabStore = (*PostgresVocabStore)(nil)

// NewPostgresVocabStore creates a new PostgresVocabStore.
func NewPostgresVocabStore(db store.DBTX, logger *slog.Logger) *PostgresVocabStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresVocabStore{
		db:     db,
		logger: logger.With(slog.String("component", "vocab_store")),
	}
}

// WithTx returns a VocabStore bound to the provided transaction.
func (s *PostgresVocabStore) WithTx(tx *sql.Tx) store.VocabStore {
	return &PostgresVocabStore{db: tx, logger: s.logger}
}

const vocabColumns = `
	id, learner_id, word, translation, language, context, category, cefr_level,
	mastery, review_count, correct_count, next_review_at, last_reviewed_at,
	created_at
`

// Create saves a new vocabulary item.
func (s *PostgresVocabStore) Create(ctx context.Context, item *domain.VocabItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO vocab_items (` + vocabColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.LearnerID,
		item.Word,
		item.Translation,
		item.Language,
		item.Context,
		item.Category,
		item.CEFRLevel,
		item.Mastery,
		item.ReviewCount,
		item.CorrectCount,
		item.NextReviewAt,
		nullableTime(item.LastReviewedAt),
		item.CreatedAt,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to insert vocabulary item",
			slog.String("item_id", item.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// GetForLearner retrieves a vocabulary item by ID, scoped to the owning
// learner.
func (s *PostgresVocabStore) GetForLearner(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.VocabItem, error) {
	query := `
		SELECT ` + vocabColumns + `
		FROM vocab_items
		WHERE id = $1 AND learner_id = $2
	`
	item, err := scanVocabItem(s.db.QueryRowContext(ctx, query, itemID, learnerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVocabItemNotFound
		}
		return nil, MapError(err)
	}
	return item, nil
}

// ListByLearner returns the learner's vocabulary bank, newest first.
func (s *PostgresVocabStore) ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.VocabItem, error) {
	query := `
		SELECT ` + vocabColumns + `
		FROM vocab_items
		WHERE learner_id = $1
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, MapError(err)
	}
	return collectVocabItems(rows)
}

// ListDue returns up to limit vocabulary items due at or before dueBefore,
// most overdue first with ID as tie-break.
func (s *PostgresVocabStore) ListDue(
	ctx context.Context,
	learnerID uuid.UUID,
	dueBefore time.Time,
	limit int,
) ([]*domain.VocabItem, error) {
	query := `
		SELECT ` + vocabColumns + `
		FROM vocab_items
		WHERE learner_id = $1 AND next_review_at <= $2
		ORDER BY next_review_at ASC, id ASC
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, learnerID, dueBefore, limit)
	if err != nil {
		return nil, MapError(err)
	}
	return collectVocabItems(rows)
}

// UpdateReview persists an item's post-review counters, mastery and schedule.
func (s *PostgresVocabStore) UpdateReview(ctx context.Context, item *domain.VocabItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE vocab_items
		SET mastery = $2,
		    review_count = $3,
		    correct_count = $4,
		    next_review_at = $5,
		    last_reviewed_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Mastery,
		item.ReviewCount,
		item.CorrectCount,
		item.NextReviewAt,
		nullableTime(item.LastReviewedAt),
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrVocabItemNotFound)
}

// Delete removes a vocabulary item scoped to the owning learner. Deleting an
// absent item reports deleted=false without an error.
func (s *PostgresVocabStore) Delete(ctx context.Context, learnerID, itemID uuid.UUID) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM vocab_items WHERE id = $1 AND learner_id = $2`, itemID, learnerID)
	if err != nil {
		return false, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// Stats returns the learner's vocabulary totals at the given due cutoff.
func (s *PostgresVocabStore) Stats(ctx context.Context, learnerID uuid.UUID, dueBefore time.Time) (*store.VocabStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE mastery >= $3),
			COUNT(*) FILTER (WHERE next_review_at <= $2),
			COALESCE(ROUND(AVG(mastery)), 0)::int
		FROM vocab_items
		WHERE learner_id = $1
	`
	var stats store.VocabStats
	err := s.db.QueryRowContext(ctx, query, learnerID, dueBefore, domain.MasteredThreshold).Scan(
		&stats.TotalWords,
		&stats.Mastered,
		&stats.DueForReview,
		&stats.AverageMastery,
	)
	if err != nil {
		return nil, MapError(err)
	}

	return &stats, nil
}

func scanVocabItem(row rowScanner) (*domain.VocabItem, error) {
	var (
		item         domain.VocabItem
		lastReviewed sql.NullTime
	)
	err := row.Scan(
		&item.ID,
		&item.LearnerID,
		&item.Word,
		&item.Translation,
		&item.Language,
		&item.Context,
		&item.Category,
		&item.CEFRLevel,
		&item.Mastery,
		&item.ReviewCount,
		&item.CorrectCount,
		&item.NextReviewAt,
		&lastReviewed,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastReviewed.Valid {
		item.LastReviewedAt = lastReviewed.Time
	}
	return &item, nil
}

func collectVocabItems(rows *sql.Rows) ([]*domain.VocabItem, error) {
	defer func() { _ = rows.Close() }()

	items := make([]*domain.VocabItem, 0)
	for rows.Next() {
		item, err := scanVocabItem(rows)
		if err != nil {
			return nil, MapError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return items, nil
}
