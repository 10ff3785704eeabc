package queries

import (
	"errors"
	"time"

	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/guard"
)

var ErrGetJobStatusQueryIsNotConstructed = errors.New(
	"GetJobStatusQuery must be created via NewGetJobStatusQuery constructor",
)

// GetJobStatusQuery retrieves the current state of one image upload job.
// Clients poll it as a fallback when they are not subscribed to the job's
// event stream.
type GetJobStatusQuery struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetJobStatusQuery creates a query for a single job's status.
func NewGetJobStatusQuery(jobID kernel.UUID) (GetJobStatusQuery, error) {
	query := GetJobStatusQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := jobID.Validate(); err != nil {
		return GetJobStatusQuery{}, err
	}
	query.jobID = jobID

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetJobStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetJobStatusQueryIsNotConstructed)
}

// JobID returns the job being inspected.
func (q GetJobStatusQuery) JobID() kernel.UUID {
	return q.jobID
}

// GetJobStatusQueryResponse represents the observable state of a job.
type GetJobStatusQueryResponse struct {
	ID          kernel.UUID
	Status      imagejob.JobStatus
	FailReason  string
	CreatedAt   time.Time
	CompletedAt *time.Time
}
