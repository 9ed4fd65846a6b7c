package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidQuality is returned when a review quality rating is outside
	// the 0..5 range accepted by the SM-2 scheduler.
	ErrInvalidQuality = errors.New("quality rating must be between 0 and 5")

	// ErrInvalidXpReason is returned when an XP award uses an unknown reason code.
	ErrInvalidXpReason = errors.New("unknown XP reason code")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
