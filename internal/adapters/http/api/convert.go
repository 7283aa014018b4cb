package api

import (
	"context"
	"net/http"

	"github.com/okian/swimconv/internal/domain/conversion"
	"github.com/okian/swimconv/internal/domain/types"
)

// ConvertDependencies defines the conversion operations used by the handlers.
type ConvertDependencies interface {
	Convert(ctx context.Context, req types.ConvertRequest) (conversion.Result, error)
	ConvertBatch(ctx context.Context, req types.BatchRequest) (types.BatchResponse, error)
	Validate(ctx context.Context, req types.ValidateRequest) (types.ValidateResponse, error)
}

// ConvertHandler handles conversion and validation requests.
type ConvertHandler struct {
	deps ConvertDependencies
}

// NewConvertHandler creates a new convert handler.
func NewConvertHandler(deps ConvertDependencies) *ConvertHandler {
	return &ConvertHandler{deps: deps}
}

// HandleConvert handles POST /convert requests.
func (h *ConvertHandler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	const op = "api.convert"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.ConvertRequest
	if err := decode(w, r, &req); err != nil {
		fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Convert(r.Context(), req)
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.FromResult(res))
}

// HandleBatch handles POST /convert/batch requests. Item failures are
// reported per item; the request itself still succeeds.
func (h *ConvertHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.convert_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.BatchRequest
	if err := decode(w, r, &req); err != nil {
		fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}

	resp, err := h.deps.ConvertBatch(r.Context(), req)
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleValidate handles POST /validate requests.
func (h *ConvertHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.validate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.ValidateRequest
	if err := decode(w, r, &req); err != nil {
		fail(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}

	resp, err := h.deps.Validate(r.Context(), req)
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
