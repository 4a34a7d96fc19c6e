package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/dinger/internal/domain/model"
	"github.com/okian/dinger/internal/domain/snapshot"
)

// SnapshotDependencies defines the interface for finalizing a day.
type SnapshotDependencies interface {
	Finalize(ctx context.Context, day string, allowEmpty bool) (model.Snapshot, error)
}

// SnapshotHandler handles finalization requests.
type SnapshotHandler struct {
	deps SnapshotDependencies
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(deps SnapshotDependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// HandleFinalize handles POST /snapshots/{day}?allow_empty=true requests.
func (h *SnapshotHandler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	day := r.PathValue("day")
	allowEmpty := false
	if raw := r.URL.Query().Get("allow_empty"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: allow_empty must be a boolean", ErrBadRequest))
			return
		}
		allowEmpty = v
	}

	snap, err := h.deps.Finalize(r.Context(), day, allowEmpty)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, snap)
	case errors.Is(err, snapshot.ErrInvalidDay):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, snapshot.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already_exists", err)
	case errors.Is(err, snapshot.ErrMissingBuffer):
		writeError(w, http.StatusNotFound, "missing_buffer", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
