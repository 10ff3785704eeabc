package imagejob

import (
	"errors"
	"fmt"

	"foodfast/internal/pkg/errs"
)

// ErrClaimConflict is returned when a worker loses the race to claim a
// pending job: another worker's conditional update won. The loser treats the
// conflict as "no job available" and goes back to waiting for work.
var ErrClaimConflict = errors.New("job already claimed by another worker")

// JobStatus represents the lifecycle state of an image upload job.
//
// State transitions:
//
//	Pending ──> Processing ──> Completed
//	                 │
//	                 └──> Failed
//
// Completed and Failed are terminal: a failed job is never reopened, a new
// job must be submitted to retry. The Pending -> Processing step is the
// atomic claim that guarantees single ownership by one worker.
type JobStatus int

const (
	// JobUnknown represents an invalid or undefined status.
	JobUnknown JobStatus = iota

	// JobPending means the job is persisted and waiting for a worker.
	JobPending

	// JobProcessing means exactly one worker holds the job.
	JobProcessing

	// JobCompleted means processing finished successfully. Terminal.
	JobCompleted

	// JobFailed means processing errored; the error is recorded and the
	// job will not be retried automatically. Terminal.
	JobFailed
)

func getJobStatusStrings() map[JobStatus]string {
	return map[JobStatus]string{
		JobUnknown:    "unknown",
		JobPending:    "pending",
		JobProcessing: "processing",
		JobCompleted:  "completed",
		JobFailed:     "failed",
	}
}

// JobStatusFromString parses the persisted representation of a job status.
func JobStatusFromString(s string) (JobStatus, error) {
	for status, str := range getJobStatusStrings() {
		if status != JobUnknown && str == s {
			return status, nil
		}
	}
	return JobUnknown, errs.NewValueIsInvalidErrorWithCause("job status",
		fmt.Errorf("%q is not a valid job status", s))
}

// Validate checks if the JobStatus value is valid.
func (s JobStatus) Validate() error {
	if s == JobUnknown {
		return errs.NewValueIsInvalidErrorWithCause("job status",
			fmt.Errorf("%d is not a valid job status", s))
	}
	if _, ok := getJobStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("job status",
			fmt.Errorf("%d is not a valid job status", s))
	}
	return nil
}

// String returns the wire representation of the status.
func (s JobStatus) String() string {
	if str, ok := getJobStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status is final.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}
