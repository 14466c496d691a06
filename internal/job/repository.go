package job

import (
	"context"
	"errors"
)

// ErrJobNotFound is returned when no job exists for the requested ID.
var ErrJobNotFound = errors.New("job not found")

// Repository persists protection jobs. It is the storage port of the
// job package; handlers and the service only see this interface.
type Repository interface {
	// Save persists a job, replacing any existing job with the same ID.
	Save(ctx context.Context, j *Job) error

	// FindByID retrieves a job by its identifier.
	// Returns ErrJobNotFound if the job does not exist.
	FindByID(ctx context.Context, id string) (*Job, error)

	// List returns all known jobs.
	List(ctx context.Context) ([]*Job, error)

	// Delete removes a job. Returns ErrJobNotFound if absent.
	Delete(ctx context.Context, id string) error
}
