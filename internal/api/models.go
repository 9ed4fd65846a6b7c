// Package api exposes the review engine over HTTP: JSON request/response
// models, handlers for each resource and the error-to-status mapping.
package api

import "github.com/lingueefy/review-engine/internal/domain"

// RegisterRequest is the request body for learner registration.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=12,max=100"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is the response body for register, login and refresh.
type AuthResponse struct {
	LearnerID    string `json:"learner_id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateDeckRequest is the request body for deck creation.
type CreateDeckRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	TitleFr       string `json:"title_fr,omitempty" validate:"max=200"`
	Description   string `json:"description,omitempty" validate:"max=2000"`
	DescriptionFr string `json:"description_fr,omitempty" validate:"max=2000"`
	CEFRLevel     string `json:"cefr_level,omitempty" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	Category      string `json:"category,omitempty" validate:"max=100"`
}

// CreateCardRequest is the request body for card creation.
type CreateCardRequest struct {
	Front    string `json:"front" validate:"required,max=2000"`
	Back     string `json:"back" validate:"required,max=2000"`
	Hint     string `json:"hint,omitempty" validate:"max=2000"`
	AudioURL string `json:"audio_url,omitempty" validate:"omitempty,url"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// SubmitReviewRequest is the request body for grading a flashcard.
type SubmitReviewRequest struct {
	Quality         int `json:"quality" validate:"min=0,max=5"`
	DurationSeconds int `json:"duration_seconds,omitempty" validate:"min=0"`
}

// AddWordRequest is the request body for adding a vocabulary item.
type AddWordRequest struct {
	Word        string `json:"word" validate:"required,max=200"`
	Translation string `json:"translation" validate:"required,max=200"`
	Language    string `json:"language,omitempty" validate:"max=10"`
	Context     string `json:"context,omitempty" validate:"max=2000"`
	Category    string `json:"category,omitempty" validate:"max=100"`
	CEFRLevel   string `json:"cefr_level,omitempty" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
}

// ReviewWordRequest is the request body for grading a vocabulary item.
type ReviewWordRequest struct {
	Correct         bool `json:"correct"`
	DurationSeconds int  `json:"duration_seconds,omitempty" validate:"min=0"`
}

// DeckListResponse wraps a list of decks.
type DeckListResponse struct {
	Decks []*domain.Deck `json:"decks"`
}

// CardListResponse wraps a list of cards.
type CardListResponse struct {
	Cards []*domain.Card `json:"cards"`
}

// VocabListResponse wraps a list of vocabulary items.
type VocabListResponse struct {
	Items []*domain.VocabItem `json:"items"`
}
