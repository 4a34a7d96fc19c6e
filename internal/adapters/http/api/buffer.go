package api

import (
	"context"
	"net/http"
)

// BufferDependencies defines the interface for reading the live day.
type BufferDependencies interface {
	Buffer(ctx context.Context) (day string, records []Record)
}

// BufferHandler handles live buffer requests.
type BufferHandler struct {
	deps BufferDependencies
}

// NewBufferHandler creates a new buffer handler.
func NewBufferHandler(deps BufferDependencies) *BufferHandler {
	return &BufferHandler{deps: deps}
}

type bufferResponse struct {
	Day      string   `json:"day"`
	HomeRuns []Record `json:"homeRuns"`
}

// HandleBuffer handles GET /buffer requests.
func (h *BufferHandler) HandleBuffer(w http.ResponseWriter, r *http.Request) {
	day, records := h.deps.Buffer(r.Context())
	if records == nil {
		records = []Record{}
	}
	writeJSON(w, http.StatusOK, bufferResponse{Day: day, HomeRuns: records})
}
