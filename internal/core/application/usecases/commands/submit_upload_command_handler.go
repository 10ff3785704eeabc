package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/ports"
)

// ErrStorageUnavailable is returned when the object storage backend rejects
// a write. No job is enqueued in that case; the client retries the whole
// upload.
var ErrStorageUnavailable = errors.New("object storage unavailable")

// SubmitUploadCommandHandler accepts a validated upload: it persists the raw
// bytes to object storage, enqueues a pending processing job, and wakes the
// worker pool. The job row is written only after the bytes are safely
// stored, so a claimed job can always find its input.
type SubmitUploadCommandHandler struct {
	uowFactory JobUoWFactory
	storage    ports.ObjectStorage
	notifier   ports.JobNotifier
}

// NewSubmitUploadCommandHandler creates a handler for menu image uploads.
func NewSubmitUploadCommandHandler(
	uowFactory JobUoWFactory,
	storage ports.ObjectStorage,
	notifier ports.JobNotifier,
) SubmitUploadCommandHandler {
	return SubmitUploadCommandHandler{
		uowFactory: uowFactory,
		storage:    storage,
		notifier:   notifier,
	}
}

// Handle processes the upload command. Returns ErrStorageUnavailable when
// the storage write fails; the job table is untouched in that case.
func (h SubmitUploadCommandHandler) Handle(ctx context.Context, command SubmitUploadCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	storageKey := fmt.Sprintf("uploads/%s/%s%s",
		command.RestaurantID(), command.JobID(), command.Extension())

	content := io.LimitReader(command.Content(), MaxUploadSize)
	if err := h.storage.Put(ctx, storageKey, content); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	job, err := imagejob.NewJob(command.JobID(), command.RestaurantID(), storageKey, time.Now().UTC())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ImageJobRepository().Add(ctx, &job); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Wake()

	return nil
}
