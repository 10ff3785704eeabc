package commands

import (
	"context"

	"foodfast/internal/core/ports"
)

// RequeueStaleJobsCommandHandler returns abandoned jobs to the queue and
// wakes the workers when it recovered anything.
type RequeueStaleJobsCommandHandler struct {
	uowFactory JobUoWFactory
	notifier   ports.JobNotifier
}

// NewRequeueStaleJobsCommandHandler creates a handler for stale job recovery.
func NewRequeueStaleJobsCommandHandler(uowFactory JobUoWFactory, notifier ports.JobNotifier) RequeueStaleJobsCommandHandler {
	return RequeueStaleJobsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle moves jobs stuck in processing beyond the threshold back to
// pending so another worker can claim them.
func (h RequeueStaleJobsCommandHandler) Handle(ctx context.Context, command RequeueStaleJobsCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	recovered, err := uow.ImageJobRepository().ResetStale(ctx, command.Threshold())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if recovered > 0 {
		h.notifier.Wake()
	}

	return nil
}
