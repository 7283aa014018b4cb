// Package verify drives a running swimconv server with generated times and
// checks every answer against the local conversion engine.
package verify

import (
	"errors"
	"time"
)

// ErrMismatch is returned by Run when at least one answer disagreed with
// the local engine or could not be fetched.
var ErrMismatch = errors.New("server answers disagree with the local engine")

// Config holds configuration for a verification run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumTimes   int           // Number of times to generate and convert
	Workers    int           // Number of concurrent requests
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional JSON file receiving the generated samples
	// InvalidRatio is the share of samples deliberately malformed to
	// exercise error codes. 0 disables them.
	InvalidRatio float64
	Verbose      bool
}

// Sample is one generated conversion request.
type Sample struct {
	Time     string `json:"time"`
	Event    string `json:"event"`
	From     string `json:"from_course"`
	To       string `json:"to_course"`
	Altitude bool   `json:"altitude_adjustment,omitempty"`
}

// Mismatch describes a sample the server answered differently.
type Mismatch struct {
	Sample Sample `json:"sample"`
	Reason string `json:"reason"`
}

// Stats holds run statistics.
type Stats struct {
	Generated  int           `json:"generated"`
	Submitted  int           `json:"submitted"`
	Matched    int           `json:"matched"`
	Mismatched int           `json:"mismatched"`
	Failed     int           `json:"failed"`
	Mismatches []Mismatch    `json:"mismatches,omitempty"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Duration   time.Duration `json:"duration_ns"`
}

// maxReportedMismatches caps how many mismatches Stats keeps.
const maxReportedMismatches = 20
