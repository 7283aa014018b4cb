package model

import "errors"

// Sentinel errors shared by the service and its transports.
var (
	ErrJobNotFound   = errors.New("job not found")
	ErrBatchTooLarge = errors.New("batch too large")
	ErrEmptyBatch    = errors.New("batch has no entries")
	ErrBackpressure  = errors.New("backpressure")
	ErrNotStarted    = errors.New("service not started")
	// ErrClaimConflict means a request id was rebound by another
	// submission while this one was taking it over.
	ErrClaimConflict = errors.New("request id claimed concurrently")
)
