// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/swimconv/internal/domain/conversion"
)

// JobStatus is the lifecycle state of an asynchronous batch job.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Terminal reports whether no further transition is expected.
func (s JobStatus) Terminal() bool {
	return s == JobDone || s == JobFailed
}

// Job is a batch conversion submitted for background processing.
type Job struct {
	ID        string // server-assigned uuid
	RequestID string // optional client idempotency key
	From      string
	To        string
	Altitude  bool
	Entries   []conversion.Entry

	Status JobStatus
	Items  []conversion.BatchItem
	// Error is set when the job as a whole failed.
	Error string

	SubmittedAt time.Time
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Counts returns how many items converted and how many failed.
func (j *Job) Counts() (succeeded, failed int) {
	for _, it := range j.Items {
		if it.Err != nil {
			failed++
			continue
		}
		succeeded++
	}
	return succeeded, failed
}

// Clone returns a copy that shares no slices with j.
func (j *Job) Clone() *Job {
	c := *j
	c.Entries = append([]conversion.Entry(nil), j.Entries...)
	c.Items = append([]conversion.BatchItem(nil), j.Items...)
	return &c
}
