package imagejob

import (
	"errors"
	"fmt"
	"time"

	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/errs"
)

// ErrJobIsNotConstructed is returned when a Job is used without being
// created via its constructor.
var ErrJobIsNotConstructed = errors.New("job must be created via NewJob or RestoreJob")

// Job is the aggregate root for an image upload processing job. A job is
// created in Pending status once the raw upload has been persisted to object
// storage, claimed by exactly one worker (Pending -> Processing), and
// finishes in Completed or Failed. The completion time is recorded only when
// the job reaches a terminal status.
type Job struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	storageKey   string
	status       JobStatus
	failReason   string
	createdAt    time.Time
	completedAt  *time.Time

	isConstructed bool
}

// NewJob creates a pending job for an upload stored under storageKey.
func NewJob(id kernel.UUID, restaurantID kernel.UUID, storageKey string, now time.Time) (Job, error) {
	if err := id.Validate(); err != nil {
		return Job{}, errs.NewValueIsInvalidErrorWithCause("jobId", err)
	}
	if err := restaurantID.Validate(); err != nil {
		return Job{}, errs.NewValueIsInvalidErrorWithCause("restaurantId", err)
	}
	if storageKey == "" {
		return Job{}, errs.NewValueIsRequiredError("storageKey")
	}

	return Job{
		id:            id,
		restaurantID:  restaurantID,
		storageKey:    storageKey,
		status:        JobPending,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreJob reconstructs a job from persisted state.
func RestoreJob(id kernel.UUID, restaurantID kernel.UUID, storageKey string,
	status JobStatus, failReason string, createdAt time.Time, completedAt *time.Time) (Job, error) {
	if err := id.Validate(); err != nil {
		return Job{}, errs.NewValueIsInvalidErrorWithCause("jobId", err)
	}
	if err := restaurantID.Validate(); err != nil {
		return Job{}, errs.NewValueIsInvalidErrorWithCause("restaurantId", err)
	}
	if storageKey == "" {
		return Job{}, errs.NewValueIsRequiredError("storageKey")
	}
	if err := status.Validate(); err != nil {
		return Job{}, err
	}

	return Job{
		id:            id,
		restaurantID:  restaurantID,
		storageKey:    storageKey,
		status:        status,
		failReason:    failReason,
		createdAt:     createdAt,
		completedAt:   completedAt,
		isConstructed: true,
	}, nil
}

// ID returns the job's unique identifier.
func (j *Job) ID() kernel.UUID {
	return j.id
}

// RestaurantID returns the restaurant the upload belongs to.
func (j *Job) RestaurantID() kernel.UUID {
	return j.restaurantID
}

// StorageKey returns the object storage key of the raw upload.
func (j *Job) StorageKey() string {
	return j.storageKey
}

// Status returns the job's current status.
func (j *Job) Status() JobStatus {
	return j.status
}

// FailReason returns the recorded failure reason, empty unless Failed.
func (j *Job) FailReason() string {
	return j.failReason
}

// CreatedAt returns when the job was submitted.
func (j *Job) CreatedAt() time.Time {
	return j.createdAt
}

// CompletedAt returns when the job reached a terminal status, nil otherwise.
func (j *Job) CompletedAt() *time.Time {
	return j.completedAt
}

// Claim moves the job from Pending to Processing. Claiming a job that is not
// pending returns ErrClaimConflict; the repository performs the same check
// conditionally in storage so only one worker's claim can win.
func (j *Job) Claim() error {
	if j.status != JobPending {
		return fmt.Errorf("%w: job %s is %s", ErrClaimConflict, j.id, j.status)
	}
	j.status = JobProcessing
	return nil
}

// Complete marks a processing job as successfully finished.
func (j *Job) Complete(now time.Time) error {
	if j.status != JobProcessing {
		return errs.NewValueIsInvalidErrorWithCause("jobStatus",
			fmt.Errorf("cannot complete job in status %s", j.status))
	}
	j.status = JobCompleted
	j.completedAt = &now
	return nil
}

// Fail marks a processing job as failed and records the reason. Failed is
// terminal: resubmitting the upload creates a fresh job.
func (j *Job) Fail(reason string, now time.Time) error {
	if j.status != JobProcessing {
		return errs.NewValueIsInvalidErrorWithCause("jobStatus",
			fmt.Errorf("cannot fail job in status %s", j.status))
	}
	j.status = JobFailed
	j.failReason = reason
	j.completedAt = &now
	return nil
}

// IsTerminal reports whether the job is in a final status.
func (j *Job) IsTerminal() bool {
	return j.status.IsTerminal()
}

// Validate checks if the Job was properly constructed.
func (j *Job) Validate() error {
	if !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}
