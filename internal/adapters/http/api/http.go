// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/swimconv/internal/domain/model"
	"github.com/okian/swimconv/internal/domain/types"
	"github.com/okian/swimconv/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ConvertDependencies
	StandardsDependencies
	JobDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	convertHandler   *ConvertHandler
	standardsHandler *StandardsHandler
	jobsHandler      *JobsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		convertHandler:   NewConvertHandler(deps),
		standardsHandler: NewStandardsHandler(deps),
		jobsHandler:      NewJobsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/convert", MetricsMiddleware(s.convertHandler.HandleConvert, "convert"))
	mux.HandleFunc("/convert/batch", MetricsMiddleware(s.convertHandler.HandleBatch, "convert_batch"))
	mux.HandleFunc("/validate", MetricsMiddleware(s.convertHandler.HandleValidate, "validate"))
	mux.HandleFunc("/standards", MetricsMiddleware(s.standardsHandler.HandleGetStandards, "standards"))
	mux.HandleFunc("/standards/check", MetricsMiddleware(s.standardsHandler.HandleCheck, "standards_check"))
	mux.HandleFunc("/jobs", MetricsMiddleware(s.jobsHandler.HandlePostJob, "jobs"))
	mux.HandleFunc("/jobs/", MetricsMiddleware(s.jobsHandler.HandleGetJob, "job"))
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
	writeJSON(w, status, types.ErrorBody{Code: code, Message: msg})
}

// fail classifies err and writes the matching error response.
func fail(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Named("api").Error(ctx, "request failed", logger.Error(err))
	}
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, model.ErrEmptyBatch):
		return http.StatusBadRequest, "empty_batch"
	case errors.Is(err, model.ErrBatchTooLarge):
		return http.StatusBadRequest, "batch_too_large"
	case errors.Is(err, model.ErrJobNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, model.ErrClaimConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, model.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	}
	if code := types.ErrorCode(err); code != types.CodeInternal {
		return http.StatusBadRequest, code
	}
	return http.StatusInternalServerError, types.CodeInternal
}

// decode reads a JSON body into v. Unknown fields are ignored.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}
