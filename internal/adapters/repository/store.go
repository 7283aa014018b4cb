// Package repository keeps batch jobs and their results.
package repository

import (
	"context"

	"github.com/okian/swimconv/internal/domain/model"
)

// Store provides read/write access to jobs.
type Store interface {
	// Create inserts a new job. It returns ErrDuplicate when the id exists.
	Create(ctx context.Context, job *model.Job) error

	// Update replaces a stored job. It returns ErrNotFound when the job is
	// unknown or was evicted.
	Update(ctx context.Context, job *model.Job) error

	// Get returns a copy of the job. It returns ErrNotFound when unknown.
	Get(ctx context.Context, id string) (*model.Job, error)

	// Delete removes a job and reports whether it existed.
	Delete(ctx context.Context, id string) bool

	// Count returns the number of stored jobs.
	Count(ctx context.Context) int
}
