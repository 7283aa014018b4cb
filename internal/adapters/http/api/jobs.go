package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/swimconv/internal/domain/types"
)

// JobDependencies defines the asynchronous job operations.
type JobDependencies interface {
	SubmitJob(ctx context.Context, req types.BatchRequest) (types.JobAccepted, error)
	Job(ctx context.Context, id string) (types.JobResponse, error)
}

// JobsHandler handles batch job requests.
type JobsHandler struct {
	deps JobDependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobDependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

// HandlePostJob handles POST /jobs requests. A new job answers 202, a
// resubmitted request id answers 200 with the existing job.
func (h *JobsHandler) HandlePostJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_job"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.BatchRequest
	if err := decode(w, r, &req); err != nil {
		fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}

	accepted, err := h.deps.SubmitJob(r.Context(), req)
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	if accepted.Duplicate {
		writeJSON(w, http.StatusOK, accepted)
		return
	}
	writeJSON(w, http.StatusAccepted, accepted)
}

// HandleGetJob handles GET /jobs/{id} requests.
func (h *JobsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" || strings.Contains(id, "/") {
		fail(r.Context(), w, NewKind(op, ErrBadRequest))
		return
	}

	job, err := h.deps.Job(r.Context(), id)
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, job)
}
