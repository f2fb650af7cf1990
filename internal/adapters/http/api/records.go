// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dinneroo/zonescore/internal/domain/model"
)

// RecordsHandler handles metric record submission.
type RecordsHandler struct {
	deps Dependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps Dependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// recordRequest mirrors the POST /records body.
type recordRequest struct {
	RecordID   string  `json:"record_id"`
	EntityID   string  `json:"entity_id"`
	EntityKind string  `json:"entity_kind"`
	Factor     string  `json:"factor"`
	Value      float64 `json:"value"`
	Source     string  `json:"source"`
	ObservedAt string  `json:"observed_at"`
}

func (r recordRequest) validate() error {
	switch {
	case strings.TrimSpace(r.RecordID) == "":
		return errors.New("missing record_id")
	case strings.TrimSpace(r.EntityID) == "":
		return errors.New("missing entity_id")
	case strings.TrimSpace(r.EntityKind) == "":
		return errors.New("missing entity_kind")
	case strings.TrimSpace(r.Factor) == "":
		return errors.New("missing factor")
	case strings.TrimSpace(r.Source) == "":
		return errors.New("missing source")
	}
	if r.ObservedAt != "" {
		if _, err := time.Parse(time.RFC3339, r.ObservedAt); err != nil {
			return errors.New("invalid observed_at; must be RFC3339")
		}
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// HandlePostRecord handles POST /records requests.
func (h *RecordsHandler) HandlePostRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	observedAt := time.Time{}
	if req.ObservedAt != "" {
		observedAt, _ = time.Parse(time.RFC3339, req.ObservedAt)
	}

	duplicate, err := h.deps.SubmitRecord(r.Context(), model.MetricRecord{
		RecordID:   req.RecordID,
		EntityID:   req.EntityID,
		EntityKind: model.EntityKind(strings.ToLower(req.EntityKind)),
		Factor:     strings.ToLower(req.Factor),
		Value:      req.Value,
		Source:     model.Source(strings.ToLower(req.Source)),
		ObservedAt: observedAt,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	status := http.StatusAccepted
	if duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, ackResponse{Status: "accepted", Duplicate: duplicate})
}
