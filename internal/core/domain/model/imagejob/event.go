package imagejob

import (
	"time"

	"foodfast/internal/core/domain/model/kernel"
)

// Event is published on the in-process bus whenever a job changes status,
// so clients waiting on an upload can observe completion without polling.
type Event struct {
	JobID      kernel.UUID
	Status     JobStatus
	FailReason string
	OccurredAt time.Time
}

// Topic returns the bus topic carrying events for a single job.
func Topic(jobID kernel.UUID) string {
	return "job:" + jobID.String()
}
