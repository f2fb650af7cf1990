// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/dinneroo/zonescore/internal/app"
	"github.com/dinneroo/zonescore/internal/adapters/repository"
	"github.com/dinneroo/zonescore/internal/domain/model"
	"github.com/dinneroo/zonescore/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitRecord accepts a metric record for the next run. Returns true
	// when the record id was already seen.
	SubmitRecord(ctx context.Context, rec model.MetricRecord) (bool, error)

	// Run executes a scoring run over all accepted records.
	Run(ctx context.Context) (service.RunSummary, error)

	// Read operations expose ranked scorecards.
	TopN(ctx context.Context, kind model.EntityKind, n int) ([]types.Scorecard, error)
	Scorecard(ctx context.Context, entityID string) (types.Scorecard, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recordsHandler   *RecordsHandler
	runsHandler      *RunsHandler
	rankingsHandler  *RankingsHandler
	scorecardHandler *ScorecardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		recordsHandler:   NewRecordsHandler(deps),
		runsHandler:      NewRunsHandler(deps),
		rankingsHandler:  NewRankingsHandler(deps, maxRankingLimit),
		scorecardHandler: NewScorecardHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/records", MetricsMiddleware(s.recordsHandler.HandlePostRecord, "records"))
	mux.HandleFunc("/runs", MetricsMiddleware(s.runsHandler.HandlePostRun, "runs"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/scorecards/", MetricsMiddleware(s.scorecardHandler.HandleGetScorecard, "scorecards"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
