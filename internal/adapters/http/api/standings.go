package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// StandingsDependencies defines the interface for standings reads.
type StandingsDependencies interface {
	Standings(ctx context.Context) []Standing
	Players(ctx context.Context) []PlayerLine
}

// StandingsHandler handles team and player table requests.
type StandingsHandler struct {
	deps StandingsDependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleStandings handles GET /standings requests.
func (h *StandingsHandler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Standings(r.Context()))
}

// HandlePlayers handles GET /players?limit=N requests. Without limit every
// player is returned.
func (h *StandingsHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	players := h.deps.Players(r.Context())
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if n < len(players) {
			players = players[:n]
		}
	}
	writeJSON(w, http.StatusOK, players)
}
