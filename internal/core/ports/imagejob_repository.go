package ports

import (
	"context"
	"time"

	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/domain/model/kernel"
)

// ImageJobRepository defines the persistence contract for image upload jobs.
type ImageJobRepository interface {
	// Add persists a new job in pending status.
	Add(ctx context.Context, job *imagejob.Job) error

	// Update persists changes to an existing job.
	Update(ctx context.Context, job *imagejob.Job) error

	// Get retrieves a job by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*imagejob.Job, error)

	// ClaimPending atomically claims the oldest pending job by moving it
	// to processing with a conditional update. When several workers race,
	// exactly one wins each job; when no pending job exists, the method
	// returns imagejob.ErrClaimConflict and the worker goes back to
	// waiting.
	ClaimPending(ctx context.Context) (*imagejob.Job, error)

	// ResetStale returns jobs stuck in processing longer than threshold
	// back to pending so another worker can claim them. Returns the number
	// of jobs reset.
	ResetStale(ctx context.Context, threshold time.Duration) (int64, error)
}
