package api

import (
	"net/http"
	"strconv"

	"github.com/lingueefy/review-engine/internal/api/middleware"
	"github.com/lingueefy/review-engine/internal/api/shared"
	"github.com/lingueefy/review-engine/internal/service/vocab"
)

// VocabHandler serves the learner's vocabulary bank.
type VocabHandler struct {
	vocab *vocab.Service
}

// NewVocabHandler creates a VocabHandler.
func NewVocabHandler(vocabService *vocab.Service) *VocabHandler {
	return &VocabHandler{vocab: vocabService}
}

// AddWord handles POST /vocab.
func (h *VocabHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AddWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	item, err := h.vocab.AddWord(r.Context(), learnerID, vocab.AddWordInput{
		Word:        req.Word,
		Translation: req.Translation,
		Language:    req.Language,
		Context:     req.Context,
		Category:    req.Category,
		CEFRLevel:   req.CEFRLevel,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, item)
}

// ListWords handles GET /vocab.
func (h *VocabHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	items, err := h.vocab.ListWords(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, VocabListResponse{Items: items})
}

// DueWords handles GET /vocab/due. Optional query param: limit.
func (h *VocabHandler) DueWords(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
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

	items, err := h.vocab.DueWords(r.Context(), learnerID, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, VocabListResponse{Items: items})
}

// ReviewWord handles POST /vocab/{itemID}/review.
func (h *VocabHandler) ReviewWord(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, err := pathUUID(r, "itemID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req ReviewWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.vocab.ReviewWord(r.Context(), learnerID, itemID, req.Correct, req.DurationSeconds)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// DeleteWord handles DELETE /vocab/{itemID}. Deletion is idempotent.
func (h *VocabHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, err := pathUUID(r, "itemID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.vocab.DeleteWord(r.Context(), learnerID, itemID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// Stats handles GET /vocab/stats.
func (h *VocabHandler) Stats(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	stats, err := h.vocab.Stats(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
