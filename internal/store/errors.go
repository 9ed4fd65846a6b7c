package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific variants below wrap it so callers can match
	// either the generic or the specific error with errors.Is.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a learner with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrConflict is returned when an optimistic update detects a
	// concurrent modification. The caller should retry the whole operation;
	// scheduling recomputation is pure and safe to repeat.
	ErrConflict = errors.New("concurrent modification detected")

	// ErrUnavailable is returned when the storage layer is unreachable.
	// No partial state has been persisted when this is returned.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrLearnerNotFound indicates that the requested learner does not exist.
	ErrLearnerNotFound = fmt.Errorf("%w: learner", ErrNotFound)

	// ErrDeckNotFound indicates that the requested deck does not exist or is
	// not owned by the calling learner.
	ErrDeckNotFound = fmt.Errorf("%w: deck", ErrNotFound)

	// ErrCardNotFound indicates that the requested card does not exist or is
	// not owned by the calling learner.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrVocabItemNotFound indicates that the requested vocabulary item does
	// not exist or is not owned by the calling learner.
	ErrVocabItemNotFound = fmt.Errorf("%w: vocabulary item", ErrNotFound)

	// ErrLedgerNotFound indicates that the learner has no XP ledger row yet.
	ErrLedgerNotFound = fmt.Errorf("%w: xp ledger", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a learner with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsConflictError checks if the error indicates a lost optimistic-lock race.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}
