package api

import (
	"net/http"
	"strconv"

	"github.com/lingueefy/review-engine/internal/api/middleware"
	"github.com/lingueefy/review-engine/internal/api/shared"
	"github.com/lingueefy/review-engine/internal/service/progress"
)

// ProgressHandler serves the gamification surface: the progress summary, XP
// history and the leaderboard.
type ProgressHandler struct {
	progress *progress.Service
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(progressService *progress.Service) *ProgressHandler {
	return &ProgressHandler{progress: progressService}
}

// Summary handles GET /progress.
func (h *ProgressHandler) Summary(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	summary, err := h.progress.Progress(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// XpHistory handles GET /progress/xp. Optional query params: limit, offset.
func (h *ProgressHandler) XpHistory(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")

	txns, err := h.progress.XpHistory(r.Context(), learnerID, limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{"transactions": txns})
}

// Leaderboard handles GET /progress/leaderboard. Optional query param: limit.
func (h *ProgressHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetLearnerID(r); !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	entries, err := h.progress.Leaderboard(r.Context(), queryInt(r, "limit"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{"leaderboard": entries})
}

// queryInt parses a non-negative integer query parameter, returning 0 when
// the parameter is absent or malformed.
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
