// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// RunsHandler triggers scoring runs.
type RunsHandler struct {
	deps Dependencies
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(deps Dependencies) *RunsHandler {
	return &RunsHandler{deps: deps}
}

// HandlePostRun handles POST /runs requests. The run is synchronous: the
// response carries the completed run summary or the configuration error
// that aborted it before any entity was scored.
func (h *RunsHandler) HandlePostRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	summary, err := h.deps.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "run_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
