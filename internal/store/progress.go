package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
)

// LeaderboardEntry is one row of the all-time XP leaderboard.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	LearnerID   uuid.UUID `json:"learner_id"`
	DisplayName string    `json:"display_name"`
	TotalXp     int       `json:"total_xp"`
	Level       int       `json:"level"`
	StreakDays  int       `json:"streak_days"`
}

// ProgressStore defines the interface for the gamification ledger: study
// days, the per-learner XP ledger row, the append-only XP transaction log
// and badges.
//
// The XP ledger row is the serialization point for a learner's streak and
// XP updates: writers must load it with GetLedgerForUpdate inside a
// transaction so concurrent reviews by the same learner cannot lose
// updates (see the package doc for the concurrency contract).
type ProgressStore interface {
	// UpsertStudyDay inserts the learner's activity row for a UTC date or,
	// if one already exists, accumulates the counters into it. At most one
	// row per (learner, date) ever exists.
	UpsertStudyDay(ctx context.Context, day *domain.StudyDay) error

	// RecentStudyDays returns up to limit of the learner's study days,
	// most recent first.
	RecentStudyDays(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.StudyDay, error)

	// GetLedgerForUpdate retrieves a learner's XP ledger with a row-level
	// lock (SELECT ... FOR UPDATE). Must be called within a transaction.
	// Returns ErrLedgerNotFound if the learner has no ledger row yet.
	GetLedgerForUpdate(ctx context.Context, learnerID uuid.UUID) (*domain.XpLedger, error)

	// GetLedger retrieves a learner's XP ledger without locking, for reads.
	// Returns ErrLedgerNotFound if the learner has no ledger row yet.
	GetLedger(ctx context.Context, learnerID uuid.UUID) (*domain.XpLedger, error)

	// CreateLedger inserts a new (usually empty) ledger row.
	CreateLedger(ctx context.Context, ledger *domain.XpLedger) error

	// UpdateLedger persists a modified ledger row.
	// Returns ErrLedgerNotFound if the row does not exist.
	UpdateLedger(ctx context.Context, ledger *domain.XpLedger) error

	// InsertTransaction appends one XP transaction. Transactions are the
	// audit trail for TotalXp and are never mutated or deleted.
	InsertTransaction(ctx context.Context, txn *domain.XpTransaction) error

	// ListTransactions returns a page of the learner's XP history, newest
	// first.
	ListTransactions(ctx context.Context, learnerID uuid.UUID, limit, offset int) ([]*domain.XpTransaction, error)

	// SumTransactions returns the sum of all transaction amounts for a
	// learner. Used by reconciliation checks against the ledger's TotalXp.
	SumTransactions(ctx context.Context, learnerID uuid.UUID) (int, error)

	// InsertBadgeIfAbsent awards a badge unless the learner already holds
	// one of the same type. Reports whether a new badge was inserted.
	InsertBadgeIfAbsent(ctx context.Context, badge *domain.Badge) (bool, error)

	// ListBadges returns the learner's badges, newest first.
	ListBadges(ctx context.Context, learnerID uuid.UUID) ([]*domain.Badge, error)

	// Leaderboard returns the top learners by total XP.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// WithTx returns a ProgressStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
