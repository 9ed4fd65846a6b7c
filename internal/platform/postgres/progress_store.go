package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
	"github.com/lingueefy/review-engine/internal/domain/gamify"
	"github.com/lingueefy/review-engine/internal/store"
)

// PostgresProgressStore implements store.ProgressStore using PostgreSQL.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// NewPostgresProgressStore creates a new PostgresProgressStore.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// WithTx returns a ProgressStore bound to the provided transaction.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{db: tx, logger: s.logger}
}

// UpsertStudyDay inserts the learner's activity row for a UTC date or
// accumulates the counters into the existing one.
func (s *PostgresProgressStore) UpsertStudyDay(ctx context.Context, day *domain.StudyDay) error {
	if err := day.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO study_days (learner_id, study_date, items_reviewed, correct_count, duration_seconds)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (learner_id, study_date) DO UPDATE
		SET items_reviewed = study_days.items_reviewed + EXCLUDED.items_reviewed,
		    correct_count = study_days.correct_count + EXCLUDED.correct_count,
		    duration_seconds = study_days.duration_seconds + EXCLUDED.duration_seconds
	`
	_, err := s.db.ExecContext(ctx, query,
		day.LearnerID,
		day.StudyDate,
		day.ItemsReviewed,
		day.CorrectCount,
		day.DurationSeconds,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// RecentStudyDays returns up to limit of the learner's study days, most
// recent first.
func (s *PostgresProgressStore) RecentStudyDays(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.StudyDay, error) {
	query := `
		SELECT learner_id, study_date, items_reviewed, correct_count, duration_seconds
		FROM study_days
		WHERE learner_id = $1
		ORDER BY study_date DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, learnerID, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	days := make([]*domain.StudyDay, 0)
	for rows.Next() {
		var day domain.StudyDay
		if err := rows.Scan(
			&day.LearnerID,
			&day.StudyDate,
			&day.ItemsReviewed,
			&day.CorrectCount,
			&day.DurationSeconds,
		); err != nil {
			return nil, MapError(err)
		}
		days = append(days, &day)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return days, nil
}

const ledgerSelect = `
	SELECT learner_id, total_xp, current_streak_days, longest_streak_days,
	       last_activity_date, updated_at
	FROM xp_ledgers
	WHERE learner_id = $1
`

// GetLedgerForUpdate retrieves a learner's XP ledger with a row-level lock.
// Must be called within a transaction.
func (s *PostgresProgressStore) GetLedgerForUpdate(ctx context.Context, learnerID uuid.UUID) (*domain.XpLedger, error) {
	return s.scanLedger(s.db.QueryRowContext(ctx, ledgerSelect+" FOR UPDATE", learnerID))
}

// GetLedger retrieves a learner's XP ledger without locking.
func (s *PostgresProgressStore) GetLedger(ctx context.Context, learnerID uuid.UUID) (*domain.XpLedger, error) {
	return s.scanLedger(s.db.QueryRowContext(ctx, ledgerSelect, learnerID))
}

func (s *PostgresProgressStore) scanLedger(row *sql.Row) (*domain.XpLedger, error) {
	var (
		ledger       domain.XpLedger
		lastActivity sql.NullTime
	)
	err := row.Scan(
		&ledger.LearnerID,
		&ledger.TotalXp,
		&ledger.CurrentStreakDays,
		&ledger.LongestStreakDays,
		&lastActivity,
		&ledger.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLedgerNotFound
		}
		return nil, MapError(err)
	}
	if lastActivity.Valid {
		ledger.LastActivityDate = lastActivity.Time.UTC()
	}
	return &ledger, nil
}

// CreateLedger inserts a new ledger row.
func (s *PostgresProgressStore) CreateLedger(ctx context.Context, ledger *domain.XpLedger) error {
	if err := ledger.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO xp_ledgers (learner_id, total_xp, current_streak_days,
		                        longest_streak_days, last_activity_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		ledger.LearnerID,
		ledger.TotalXp,
		ledger.CurrentStreakDays,
		ledger.LongestStreakDays,
		nullableTime(ledger.LastActivityDate),
		ledger.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// UpdateLedger persists a modified ledger row.
func (s *PostgresProgressStore) UpdateLedger(ctx context.Context, ledger *domain.XpLedger) error {
	if err := ledger.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE xp_ledgers
		SET total_xp = $2,
		    current_streak_days = $3,
		    longest_streak_days = $4,
		    last_activity_date = $5,
		    updated_at = $6
		WHERE learner_id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		ledger.LearnerID,
		ledger.TotalXp,
		ledger.CurrentStreakDays,
		ledger.LongestStreakDays,
		nullableTime(ledger.LastActivityDate),
		ledger.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrLedgerNotFound)
}

// InsertTransaction appends one XP transaction.
func (s *PostgresProgressStore) InsertTransaction(ctx context.Context, txn *domain.XpTransaction) error {
	query := `
		INSERT INTO xp_transactions (id, learner_id, amount, reason,
		                             reference_type, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		txn.ID,
		txn.LearnerID,
		txn.Amount,
		txn.Reason,
		txn.ReferenceType,
		uuid.NullUUID{UUID: txn.ReferenceID, Valid: txn.ReferenceID != uuid.Nil},
		txn.CreatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// ListTransactions returns a page of the learner's XP history, newest first.
func (s *PostgresProgressStore) ListTransactions(ctx context.Context, learnerID uuid.UUID, limit, offset int) ([]*domain.XpTransaction, error) {
	query := `
		SELECT id, learner_id, amount, reason, reference_type, reference_id, created_at
		FROM xp_transactions
		WHERE learner_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, learnerID, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	txns := make([]*domain.XpTransaction, 0)
	for rows.Next() {
		var (
			txn   domain.XpTransaction
			refID uuid.NullUUID
		)
		if err := rows.Scan(
			&txn.ID,
			&txn.LearnerID,
			&txn.Amount,
			&txn.Reason,
			&txn.ReferenceType,
			&refID,
			&txn.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		if refID.Valid {
			txn.ReferenceID = refID.UUID
		}
		txns = append(txns, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return txns, nil
}

// SumTransactions returns the sum of all transaction amounts for a learner.
func (s *PostgresProgressStore) SumTransactions(ctx context.Context, learnerID uuid.UUID) (int, error) {
	var sum int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM xp_transactions WHERE learner_id = $1`,
		learnerID,
	).Scan(&sum)
	if err != nil {
		return 0, MapError(err)
	}
	return sum, nil
}

// InsertBadgeIfAbsent awards a badge unless the learner already holds one of
// the same type. Reports whether a new badge was inserted.
func (s *PostgresProgressStore) InsertBadgeIfAbsent(ctx context.Context, badge *domain.Badge) (bool, error) {
	query := `
		INSERT INTO badges (id, learner_id, badge_type, title, title_fr, description, awarded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (learner_id, badge_type) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		badge.ID,
		badge.LearnerID,
		badge.BadgeType,
		badge.Title,
		badge.TitleFr,
		badge.Description,
		badge.AwardedAt,
	)
	if err != nil {
		return false, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListBadges returns the learner's badges, newest first.
func (s *PostgresProgressStore) ListBadges(ctx context.Context, learnerID uuid.UUID) ([]*domain.Badge, error) {
	query := `
		SELECT id, learner_id, badge_type, title, title_fr, description, awarded_at
		FROM badges
		WHERE learner_id = $1
		ORDER BY awarded_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	badges := make([]*domain.Badge, 0)
	for rows.Next() {
		var badge domain.Badge
		if err := rows.Scan(
			&badge.ID,
			&badge.LearnerID,
			&badge.BadgeType,
			&badge.Title,
			&badge.TitleFr,
			&badge.Description,
			&badge.AwardedAt,
		); err != nil {
			return nil, MapError(err)
		}
		badges = append(badges, &badge)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return badges, nil
}

// Leaderboard returns the top learners by total XP. Rank and level are
// computed here rather than stored.
func (s *PostgresProgressStore) Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardEntry, error) {
	query := `
		SELECT l.learner_id, lr.display_name, l.total_xp, l.current_streak_days
		FROM xp_ledgers l
		JOIN learners lr ON lr.id = l.learner_id
		ORDER BY l.total_xp DESC, lr.display_name ASC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]store.LeaderboardEntry, 0)
	for rows.Next() {
		var entry store.LeaderboardEntry
		if err := rows.Scan(
			&entry.LearnerID,
			&entry.DisplayName,
			&entry.TotalXp,
			&entry.StreakDays,
		); err != nil {
			return nil, MapError(err)
		}
		entry.Rank = len(entries) + 1
		entry.Level = gamify.LevelForXp(entry.TotalXp).Level
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}
