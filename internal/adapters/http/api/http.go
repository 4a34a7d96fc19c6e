// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/internal/domain/types"
	"github.com/okian/dinger/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider
	StandingsDependencies
	BufferDependencies
	SnapshotDependencies
}

// Standing mirrors the read shape of one team row.
type Standing = types.Standing

// PlayerLine mirrors the read shape of one player row.
type PlayerLine = types.PlayerLine

// Record mirrors a buffered home run.
type Record = model.Record

// Server wires HTTP routes for the read API and finalization.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	standingsHandler *StandingsHandler
	bufferHandler    *BufferHandler
	snapshotHandler  *SnapshotHandler
	logger           logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		standingsHandler: NewStandingsHandler(deps),
		bufferHandler:    NewBufferHandler(deps),
		snapshotHandler:  NewSnapshotHandler(deps),
		logger:           logger.Get().Named("http"),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", instrument(s.logger, "healthz", s.healthHandler.HandleHealth))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", instrument(s.logger, "stats", s.statsHandler.HandleStats))
	mux.HandleFunc("GET /standings", instrument(s.logger, "standings", s.standingsHandler.HandleStandings))
	mux.HandleFunc("GET /players", instrument(s.logger, "players", s.standingsHandler.HandlePlayers))
	mux.HandleFunc("GET /buffer", instrument(s.logger, "buffer", s.bufferHandler.HandleBuffer))
	mux.HandleFunc("POST /snapshots/{day}", instrument(s.logger, "snapshots", s.snapshotHandler.HandleFinalize))
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
