package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/swimconv/internal/domain/types"
)

// StandardsDependencies defines the standards operations.
type StandardsDependencies interface {
	Standards(ctx context.Context, event, gender string) types.StandardsResponse
	CheckStandards(ctx context.Context, req types.StandardsCheckRequest) (types.StandardsCheckResponse, error)
}

// StandardsHandler handles qualifying standards requests.
type StandardsHandler struct {
	deps StandardsDependencies
}

// NewStandardsHandler creates a new standards handler.
func NewStandardsHandler(deps StandardsDependencies) *StandardsHandler {
	return &StandardsHandler{deps: deps}
}

// HandleGetStandards handles GET /standards?event=&gender= requests.
// Unknown events or genders return an empty map, not 404.
func (h *StandardsHandler) HandleGetStandards(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standards"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	event := strings.TrimSpace(q.Get("event"))
	gender := strings.TrimSpace(q.Get("gender"))
	switch {
	case event == "":
		fail(r.Context(), w, WrapKind(op, ErrBadRequest, errors.New("missing event")))
		return
	case gender == "":
		fail(r.Context(), w, WrapKind(op, ErrBadRequest, errors.New("missing gender")))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Standards(r.Context(), event, gender))
}

// HandleCheck handles POST /standards/check requests.
func (h *StandardsHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	const op = "api.check_standards"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.StandardsCheckRequest
	if err := decode(w, r, &req); err != nil {
		fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}

	resp, err := h.deps.CheckStandards(r.Context(), req)
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
