package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lingueefy/review-engine/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorNil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, MapError(nil))
}

func TestMapErrorNoRows(t *testing.T) {
	t.Parallel()

	err := MapError(sql.ErrNoRows)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMapErrorPgCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want error
	}{
		{name: "unique violation", code: "23505", want: store.ErrDuplicate},
		{name: "serialization failure", code: "40001", want: store.ErrConflict},
		{name: "deadlock detected", code: "40P01", want: store.ErrConflict},
		{name: "foreign key violation", code: "23503", want: store.ErrInvalidEntity},
		{name: "check violation", code: "23514", want: store.ErrInvalidEntity},
		{name: "not null violation", code: "23502", want: store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pgErr := &pgconn.PgError{Code: tt.code, ConstraintName: "some_constraint"}
			err := MapError(fmt.Errorf("insert failed: %w", pgErr))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapErrorConnectionFailure(t *testing.T) {
	t.Parallel()

	var netErr net.Error = &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	assert.ErrorIs(t, MapError(netErr), store.ErrUnavailable)
	assert.ErrorIs(t, MapError(sql.ErrConnDone), store.ErrUnavailable)
}

func TestMapErrorPassesThroughUnknown(t *testing.T) {
	t.Parallel()

	unknown := errors.New("something else entirely")
	assert.Equal(t, unknown, MapError(unknown))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("not a pg error")))
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	notFound := store.ErrCardNotFound

	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, notFound))
	assert.ErrorIs(t, CheckRowsAffected(fakeResult{rows: 0}, notFound), notFound)

	err := CheckRowsAffected(fakeResult{err: errors.New("driver broke")}, notFound)
	require.Error(t, err)
	assert.NotErrorIs(t, err, notFound)

	assert.Error(t, CheckRowsAffected(nil, notFound))
}
