package commands

import (
	"errors"
	"time"

	"foodfast/internal/pkg/errs"
	"foodfast/internal/pkg/guard"
)

var ErrRequeueStaleJobsCommandIsNotConstructed = errors.New(
	"RequeueStaleJobsCommand must be created via NewRequeueStaleJobsCommand constructor",
)

// RequeueStaleJobsCommand triggers recovery of jobs abandoned by crashed
// workers: anything stuck in processing longer than the threshold goes back
// to pending.
type RequeueStaleJobsCommand struct { //nolint:recvcheck //using for validation
	threshold time.Duration

	guard guard.ConstructorGuard
}

// NewRequeueStaleJobsCommand creates a command to requeue stale jobs.
// The threshold must be positive and should comfortably exceed the longest
// expected processing time.
func NewRequeueStaleJobsCommand(threshold time.Duration) (RequeueStaleJobsCommand, error) {
	command := RequeueStaleJobsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setThreshold(threshold); err != nil {
		return RequeueStaleJobsCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RequeueStaleJobsCommand) Validate() error {
	return c.guard.Validate(ErrRequeueStaleJobsCommandIsNotConstructed)
}

// Threshold returns the processing age after which a job counts as stale.
func (c RequeueStaleJobsCommand) Threshold() time.Duration {
	return c.threshold
}

func (c *RequeueStaleJobsCommand) setThreshold(threshold time.Duration) error {
	if threshold <= 0 {
		return errs.NewValueIsInvalidError("threshold")
	}

	c.threshold = threshold
	return nil
}
