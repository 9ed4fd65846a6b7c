package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/domain"
	"github.com/lingueefy/review-engine/internal/store"
)

// PostgresLearnerStore implements store.LearnerStore using PostgreSQL.
type PostgresLearnerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresLearnerStore implements store.LearnerStore at compile time.
var _ store.LearnerStore = (*PostgresLearnerStore)(nil)

// NewPostgresLearnerStore creates a new PostgresLearnerStore.
func NewPostgresLearnerStore(db store.DBTX, logger *slog.Logger) *PostgresLearnerStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLearnerStore{
		db:     db,
		logger: logger.With(slog.String("component", "learner_store")),
	}
}

// Create saves a new learner. Returns store.ErrEmailExists when the email is
// already registered.
func (s *PostgresLearnerStore) Create(ctx context.Context, learner *domain.Learner) error {
	if err := learner.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO learners (id, email, hashed_password, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		learner.ID,
		learner.Email,
		learner.HashedPassword,
		learner.DisplayName,
		learner.CreatedAt,
		learner.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		s.logger.ErrorContext(ctx, "failed to insert learner",
			slog.String("learner_id", learner.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// GetByID retrieves a learner by ID.
func (s *PostgresLearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error) {
	query := `
		SELECT id, email, hashed_password, display_name, created_at, updated_at
		FROM learners
		WHERE id = $1
	`
	return s.scanLearner(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a learner by email.
func (s *PostgresLearnerStore) GetByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	query := `
		SELECT id, email, hashed_password, display_name, created_at, updated_at
		FROM learners
		WHERE email = $1
	`
	return s.scanLearner(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresLearnerStore) scanLearner(row *sql.Row) (*domain.Learner, error) {
	var learner domain.Learner
	err := row.Scan(
		&learner.ID,
		&learner.Email,
		&learner.HashedPassword,
		&learner.DisplayName,
		&learner.CreatedAt,
		&learner.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLearnerNotFound
		}
		return nil, MapError(err)
	}
	return &learner, nil
}
