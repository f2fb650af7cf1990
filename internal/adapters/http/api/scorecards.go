// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"
)

// ScorecardHandler serves single-entity scorecards.
type ScorecardHandler struct {
	deps Dependencies
}

// NewScorecardHandler creates a new scorecard handler.
func NewScorecardHandler(deps Dependencies) *ScorecardHandler {
	return &ScorecardHandler{deps: deps}
}

// HandleGetScorecard handles GET /scorecards/{entityID} requests.
func (h *ScorecardHandler) HandleGetScorecard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	entityID := strings.TrimPrefix(r.URL.Path, "/scorecards/")
	if entityID == "" || strings.Contains(entityID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing entity id"))
		return
	}

	card, err := h.deps.Scorecard(r.Context(), entityID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}
