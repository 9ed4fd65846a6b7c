package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lingueefy/review-engine/internal/api/middleware"
	"github.com/lingueefy/review-engine/internal/api/shared"
	"github.com/lingueefy/review-engine/internal/service/review"
)

// DeckHandler serves decks, cards, the due queue and review submission.
type DeckHandler struct {
	review *review.Service
}

// NewDeckHandler creates a DeckHandler.
func NewDeckHandler(reviewService *review.Service) *DeckHandler {
	return &DeckHandler{review: reviewService}
}

// CreateDeck handles POST /decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deck, err := h.review.CreateDeck(r.Context(), learnerID, review.CreateDeckInput{
		Title:         req.Title,
		TitleFr:       req.TitleFr,
		Description:   req.Description,
		DescriptionFr: req.DescriptionFr,
		CEFRLevel:     req.CEFRLevel,
		Category:      req.Category,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}

// ListDecks handles GET /decks.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	decks, err := h.review.ListDecks(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeckListResponse{Decks: decks})
}

// GetDeck handles GET /decks/{deckID}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	deck, err := h.review.GetDeck(r.Context(), learnerID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// DeleteDeck handles DELETE /decks/{deckID}.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	if err := h.review.DeleteDeck(r.Context(), learnerID, deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// CreateCard handles POST /decks/{deckID}/cards.
func (h *DeckHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.review.CreateCard(r.Context(), learnerID, deckID, review.CreateCardInput{
		Front:    req.Front,
		Back:     req.Back,
		Hint:     req.Hint,
		AudioURL: req.AudioURL,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// ListCards handles GET /decks/{deckID}/cards.
func (h *DeckHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	cards, err := h.review.ListCards(r.Context(), learnerID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CardListResponse{Cards: cards})
}

// DeleteCard handles DELETE /cards/{cardID}. Deletion is idempotent.
func (h *DeckHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	cardID, err := pathUUID(r, "cardID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	if err := h.review.DeleteCard(r.Context(), learnerID, cardID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// DueCards handles GET /reviews/due. Optional query params: deck_id, limit.
func (h *DeckHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var deckID *uuid.UUID
	if raw := r.URL.Query().Get("deck_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
			return
		}
		deckID = &parsed
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	cards, err := h.review.DueCards(r.Context(), learnerID, deckID, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CardListResponse{Cards: cards})
}

// SubmitReview handles POST /cards/{cardID}/review.
func (h *DeckHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	cardID, err := pathUUID(r, "cardID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.review.SubmitReview(r.Context(), learnerID, cardID, req.Quality, req.DurationSeconds)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Stats handles GET /reviews/stats.
func (h *DeckHandler) Stats(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	stats, err := h.review.Stats(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// pathUUID parses a UUID URL parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
