// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dinneroo/zonescore/internal/domain/model"
)

// RankingsHandler handles ranked scorecard queries.
type RankingsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps Dependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetRankings handles GET /rankings?kind=dish&limit=N requests.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	kind := model.EntityKind(strings.ToLower(r.URL.Query().Get("kind")))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("kind must be one of dish, zone, cuisine, partner"))
		return
	}

	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("limit must be a positive integer"))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", errors.New("limit exceeds maximum"))
		return
	}

	cards, err := h.deps.TopN(r.Context(), kind, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}
