package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lingueefy/review-engine/internal/domain"
	"github.com/lingueefy/review-engine/internal/service/auth"
	"github.com/lingueefy/review-engine/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Unknown
// errors default to 500 so internals never leak as client errors.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case store.IsDuplicateError(err), store.IsConflictError(err):
		return http.StatusConflict

	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidXpReason),
		errors.Is(err, domain.ErrInvalidCEFRLevel),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the sanitized user-facing message for an
// error. Raw error strings are never exposed.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token"

	case errors.Is(err, store.ErrLearnerNotFound):
		return "Learner not found"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrVocabItemNotFound):
		return "Vocabulary item not found"

	case store.IsNotFoundError(err):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case store.IsConflictError(err):
		return "Conflicting update, please retry"

	case errors.Is(err, store.ErrUnavailable):
		return "Service temporarily unavailable"

	case errors.Is(err, domain.ErrInvalidQuality):
		return "Quality rating must be between 0 and 5"

	case errors.Is(err, domain.ErrPasswordTooShort):
		return "Password is too short"

	case errors.Is(err, domain.ErrInvalidCEFRLevel):
		return "Invalid CEFR level"

	case errors.Is(err, store.ErrInvalidEntity), errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a short user-facing
// message without echoing submitted values back.
func SanitizeValidationError(err error) string {
	msg := err.Error()
	if !strings.Contains(msg, "Field validation") {
		return "Validation error"
	}

	// "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed
	// on the 'required' tag"
	parts := strings.Split(msg, "'")
	if len(parts) >= 4 {
		field := parts[3]
		return "Invalid " + field
	}
	return "Validation error"
}
