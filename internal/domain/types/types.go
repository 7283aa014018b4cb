// Package types holds the JSON shapes exchanged over HTTP and with the CLI.
package types

import (
	"errors"
	"time"

	"github.com/okian/swimconv/internal/domain/conversion"
	"github.com/okian/swimconv/internal/domain/course"
	"github.com/okian/swimconv/internal/domain/model"
	"github.com/okian/swimconv/internal/domain/swimtime"
)

// ConvertRequest is the body of POST /convert.
type ConvertRequest struct {
	Time               string `json:"time"`
	Event              string `json:"event"`
	FromCourse         string `json:"from_course"`
	ToCourse           string `json:"to_course"`
	AltitudeAdjustment bool   `json:"altitude_adjustment,omitempty"`
}

// ConversionResult is the serialised form of conversion.Result.
type ConversionResult struct {
	OriginalTime     string   `json:"original_time"`
	ConvertedTime    string   `json:"converted_time"`
	OriginalSeconds  float64  `json:"original_seconds"`
	ConvertedSeconds float64  `json:"converted_seconds"`
	Factor           float64  `json:"factor"`
	FactorSource     string   `json:"factor_source"`
	Event            string   `json:"event"`
	MappedEvent      string   `json:"mapped_event"`
	FromCourse       string   `json:"from_course"`
	ToCourse         string   `json:"to_course"`
	AltitudeAdjusted bool     `json:"altitude_adjusted"`
	AltitudeFactor   *float64 `json:"altitude_factor"`
	LowConfidence    bool     `json:"low_confidence"`
	Warning          string   `json:"warning,omitempty"`
}

// FromResult converts an engine result to its wire form.
func FromResult(r conversion.Result) ConversionResult {
	out := ConversionResult{
		OriginalTime:     r.OriginalTime,
		ConvertedTime:    r.ConvertedTime,
		OriginalSeconds:  r.OriginalSeconds,
		ConvertedSeconds: r.ConvertedSeconds,
		Factor:           r.Factor,
		FactorSource:     string(r.FactorSource),
		Event:            r.Event,
		MappedEvent:      r.MappedEvent,
		FromCourse:       r.From.String(),
		ToCourse:         r.To.String(),
		AltitudeAdjusted: r.AltitudeAdjusted,
		LowConfidence:    r.LowConfidence(),
	}
	if r.AltitudeAdjusted {
		f := r.AltitudeFactor
		out.AltitudeFactor = &f
	}
	if r.Warning != nil {
		out.Warning = r.Warning.String()
	}
	return out
}

// TimeEntry is one (time, event) pair of a batch body or batch file.
type TimeEntry struct {
	Time  string `json:"time" yaml:"time"`
	Event string `json:"event" yaml:"event"`
}

// Entries converts wire entries to engine entries.
func Entries(in []TimeEntry) []conversion.Entry {
	out := make([]conversion.Entry, len(in))
	for i, e := range in {
		out[i] = conversion.Entry{Time: e.Time, Event: e.Event}
	}
	return out
}

// BatchRequest is the body of POST /convert/batch and POST /jobs.
type BatchRequest struct {
	RequestID          string      `json:"request_id,omitempty"`
	FromCourse         string      `json:"from_course"`
	ToCourse           string      `json:"to_course"`
	AltitudeAdjustment bool        `json:"altitude_adjustment,omitempty"`
	Times              []TimeEntry `json:"times"`
}

// ErrorBody is the error shape used by every endpoint.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchItem is one position of a batch response.
type BatchItem struct {
	Result *ConversionResult `json:"result,omitempty"`
	Error  *ErrorBody        `json:"error,omitempty"`
}

// BatchResponse is returned by POST /convert/batch and inside a job.
type BatchResponse struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// StandardsResponse is returned by GET /standards.
type StandardsResponse struct {
	Event     string            `json:"event"`
	Gender    string            `json:"gender"`
	Standards map[string]string `json:"standards"`
}

// StandardsCheckRequest is the body of POST /standards/check.
type StandardsCheckRequest struct {
	Time   string `json:"time"`
	Event  string `json:"event"`
	Gender string `json:"gender"`
	// Course of Time. Empty means SCY.
	Course string `json:"course,omitempty"`
}

// StandardsCheckResponse lists the tiers a time meets, hardest first.
type StandardsCheckResponse struct {
	Event   string   `json:"event"`
	Gender  string   `json:"gender"`
	SCYTime string   `json:"scy_time"`
	Tiers   []string `json:"tiers"`
}

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	Time  string `json:"time"`
	Event string `json:"event"`
}

// ValidateResponse reports whether a time is believable for its distance.
// Min and Max are omitted when the distance has no window.
type ValidateResponse struct {
	Plausible bool     `json:"plausible"`
	Seconds   float64  `json:"seconds"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// JobAccepted is returned by POST /jobs.
type JobAccepted struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// JobResponse is returned by GET /jobs/{id}.
type JobResponse struct {
	JobID       string      `json:"job_id"`
	RequestID   string      `json:"request_id,omitempty"`
	Status      string      `json:"status"`
	FromCourse  string      `json:"from_course"`
	ToCourse    string      `json:"to_course"`
	Total       int         `json:"total"`
	Succeeded   int         `json:"succeeded"`
	Failed      int         `json:"failed"`
	Items       []BatchItem `json:"items,omitempty"`
	Error       string      `json:"error,omitempty"`
	SubmittedAt string      `json:"submitted_at"`
	FinishedAt  string      `json:"finished_at,omitempty"`
}

// Error codes for core failures.
const (
	CodeMalformedTime  = "malformed_time"
	CodeUnknownCourse  = "unknown_course"
	CodeMalformedEvent = "malformed_event"
	CodeInternal       = "internal"
)

// ErrorCode classifies a core error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, swimtime.ErrMalformedTime):
		return CodeMalformedTime
	case errors.Is(err, course.ErrUnknownCourse):
		return CodeUnknownCourse
	case errors.Is(err, course.ErrMalformedEvent):
		return CodeMalformedEvent
	default:
		return CodeInternal
	}
}

// NewBatchResponse serialises batch items, keeping their order.
func NewBatchResponse(items []conversion.BatchItem) BatchResponse {
	resp := BatchResponse{Items: make([]BatchItem, len(items))}
	for i, it := range items {
		if it.Err != nil {
			resp.Items[i] = BatchItem{Error: &ErrorBody{Code: ErrorCode(it.Err), Message: it.Err.Error()}}
			resp.Failed++
			continue
		}
		r := FromResult(it.Result)
		resp.Items[i] = BatchItem{Result: &r}
		resp.Succeeded++
	}
	return resp
}

// NewJobResponse serialises a stored job. Items are only present once the
// job has finished.
func NewJobResponse(j *model.Job) JobResponse {
	ok, failed := j.Counts()
	resp := JobResponse{
		JobID:       j.ID,
		RequestID:   j.RequestID,
		Status:      string(j.Status),
		FromCourse:  j.From,
		ToCourse:    j.To,
		Total:       len(j.Entries),
		Succeeded:   ok,
		Failed:      failed,
		Error:       j.Error,
		SubmittedAt: j.SubmittedAt.UTC().Format(time.RFC3339Nano),
	}
	if j.Status.Terminal() {
		if len(j.Items) > 0 {
			resp.Items = NewBatchResponse(j.Items).Items
		}
		if !j.FinishedAt.IsZero() {
			resp.FinishedAt = j.FinishedAt.UTC().Format(time.RFC3339Nano)
		}
	}
	return resp
}
