package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/ports"
)

// ErrNoPendingJobs is returned when the claim finds no pending job: either
// the queue is empty or a concurrent worker won every available claim. The
// caller treats both the same and goes back to waiting.
var ErrNoPendingJobs = errors.New("no pending jobs")

// ProcessImageJobCommandHandler claims and processes one image job.
//
// The claim commits before processing starts, so the processing slot is
// visible to every other worker and to the stale job sweep. Success and
// failure are both recorded in a second transaction; a worker crash between
// the two leaves the job in processing until the sweep returns it to
// pending.
type ProcessImageJobCommandHandler struct {
	uowFactory JobUoWFactory
	processor  ports.ImageProcessor
	publisher  JobEventPublisher
}

// NewProcessImageJobCommandHandler creates a handler for job processing.
func NewProcessImageJobCommandHandler(
	uowFactory JobUoWFactory,
	processor ports.ImageProcessor,
	publisher JobEventPublisher,
) ProcessImageJobCommandHandler {
	return ProcessImageJobCommandHandler{
		uowFactory: uowFactory,
		processor:  processor,
		publisher:  publisher,
	}
}

// Handle claims the oldest pending job, runs the image pipeline on it, and
// records the terminal outcome. Returns ErrNoPendingJobs when there is
// nothing to claim. A processing failure is recorded on the job, not
// returned: the command did its work by producing a terminal status.
func (h ProcessImageJobCommandHandler) Handle(ctx context.Context, command ProcessImageJobCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	job, err := h.claim(ctx)
	if err != nil {
		return err
	}

	_, processErr := h.runProcessor(ctx, job.StorageKey())

	now := time.Now().UTC()
	if processErr != nil {
		err = job.Fail(processErr.Error(), now)
	} else {
		err = job.Complete(now)
	}
	if err != nil {
		return err
	}

	if err = h.persist(ctx, job); err != nil {
		return err
	}

	h.publisher.PublishJobEvent(imagejob.Event{
		JobID:      job.ID(),
		Status:     job.Status(),
		FailReason: job.FailReason(),
		OccurredAt: now,
	})
	h.publisher.CloseJob(job.ID())

	return nil
}

// runProcessor shields the claimed job from a panicking image pipeline: a
// panic becomes a processing error, so the job is recorded as failed instead
// of sitting in processing until the stale sweep.
func (h ProcessImageJobCommandHandler) runProcessor(ctx context.Context, sourceKey string) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("image processing panicked: %v", r)
		}
	}()

	return h.processor.Process(ctx, sourceKey)
}

func (h ProcessImageJobCommandHandler) claim(ctx context.Context) (*imagejob.Job, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	job, err := uow.ImageJobRepository().ClaimPending(ctx)
	if errors.Is(err, imagejob.ErrClaimConflict) {
		return nil, ErrNoPendingJobs
	}
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return job, nil
}

func (h ProcessImageJobCommandHandler) persist(ctx context.Context, job *imagejob.Job) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ImageJobRepository().Update(ctx, job); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
