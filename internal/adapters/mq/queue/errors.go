package queue

import "errors"

// Sentinel errors returned by Enqueue.
var (
	ErrQueueFull   = errors.New("job queue full")
	ErrQueueClosed = errors.New("job queue closed")
)
