package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodfast/internal/core/application/usecases/commands"
	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/domain/model/kernel"
)

func claimedJob(t *testing.T) *imagejob.Job {
	t.Helper()
	job, err := imagejob.NewJob(kernel.NewUUID(), kernel.NewUUID(), "uploads/menu.png", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, job.Claim())
	return &job
}

func TestProcessImageJobCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	job := claimedJob(t)

	repo := new(MockImageJobRepository)
	claimUoW := new(MockJobUoW)
	persistUoW := new(MockJobUoW)
	processor := new(MockImageProcessor)
	publisher := new(MockJobEventPublisher)
	mock.InOrder(
		claimUoW.On("Begin", ctx).Return(nil).Once(),
		claimUoW.On("ImageJobRepository").Return(repo).Once(),
		repo.On("ClaimPending", mock.Anything).Return(job, nil).Once(),
		claimUoW.On("Commit", ctx).Return(nil).Once(),
		claimUoW.On("Rollback", ctx).Return(nil).Once(),
		processor.On("Process", mock.Anything, "uploads/menu.png").Return("processed/menu.png", nil).Once(),
		persistUoW.On("Begin", ctx).Return(nil).Once(),
		persistUoW.On("ImageJobRepository").Return(repo).Once(),
		repo.On("Update", mock.Anything, job).Return(nil).Once(),
		persistUoW.On("Commit", ctx).Return(nil).Once(),
		publisher.On("PublishJobEvent", mock.AnythingOfType("imagejob.Event")).Once(),
		publisher.On("CloseJob", job.ID()).Once(),
		persistUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(claimUoW).Once()
	factory.On("Create").Return(persistUoW).Once()

	h := commands.NewProcessImageJobCommandHandler(factory, processor, publisher)
	require.NoError(t, h.Handle(ctx, commands.NewProcessImageJobCommand()))
	require.Equal(t, imagejob.JobCompleted, job.Status())
	repo.AssertExpectations(t)
	processor.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProcessImageJobCommandHandler_Handle_NoWork(t *testing.T) {
	ctx := t.Context()

	repo := new(MockImageJobRepository)
	uow := new(MockJobUoW)
	processor := new(MockImageProcessor)
	publisher := new(MockJobEventPublisher)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ImageJobRepository").Return(repo).Once(),
		repo.On("ClaimPending", mock.Anything).Return(nil, imagejob.ErrClaimConflict).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewProcessImageJobCommandHandler(factory, processor, publisher)
	err := h.Handle(ctx, commands.NewProcessImageJobCommand())
	require.ErrorIs(t, err, commands.ErrNoPendingJobs)
	processor.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestProcessImageJobCommandHandler_Handle_ProcessingFailureIsRecorded(t *testing.T) {
	ctx := t.Context()
	job := claimedJob(t)

	repo := new(MockImageJobRepository)
	claimUoW := new(MockJobUoW)
	persistUoW := new(MockJobUoW)
	processor := new(MockImageProcessor)
	publisher := new(MockJobEventPublisher)
	mock.InOrder(
		claimUoW.On("Begin", ctx).Return(nil).Once(),
		claimUoW.On("ImageJobRepository").Return(repo).Once(),
		repo.On("ClaimPending", mock.Anything).Return(job, nil).Once(),
		claimUoW.On("Commit", ctx).Return(nil).Once(),
		claimUoW.On("Rollback", ctx).Return(nil).Once(),
		processor.On("Process", mock.Anything, "uploads/menu.png").Return("", errors.New("image decode failed")).Once(),
		persistUoW.On("Begin", ctx).Return(nil).Once(),
		persistUoW.On("ImageJobRepository").Return(repo).Once(),
		repo.On("Update", mock.Anything, job).Return(nil).Once(),
		persistUoW.On("Commit", ctx).Return(nil).Once(),
		publisher.On("PublishJobEvent", mock.AnythingOfType("imagejob.Event")).Once(),
		publisher.On("CloseJob", job.ID()).Once(),
		persistUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(claimUoW).Once()
	factory.On("Create").Return(persistUoW).Once()

	h := commands.NewProcessImageJobCommandHandler(factory, processor, publisher)
	require.NoError(t, h.Handle(ctx, commands.NewProcessImageJobCommand()))
	require.Equal(t, imagejob.JobFailed, job.Status())
	require.Equal(t, "image decode failed", job.FailReason())
}

func TestProcessImageJobCommandHandler_Handle_ProcessorPanicIsRecordedAsFailure(t *testing.T) {
	ctx := t.Context()
	job := claimedJob(t)

	repo := new(MockImageJobRepository)
	claimUoW := new(MockJobUoW)
	persistUoW := new(MockJobUoW)
	processor := new(MockImageProcessor)
	publisher := new(MockJobEventPublisher)
	mock.InOrder(
		claimUoW.On("Begin", ctx).Return(nil).Once(),
		claimUoW.On("ImageJobRepository").Return(repo).Once(),
		repo.On("ClaimPending", mock.Anything).Return(job, nil).Once(),
		claimUoW.On("Commit", ctx).Return(nil).Once(),
		claimUoW.On("Rollback", ctx).Return(nil).Once(),
		processor.On("Process", mock.Anything, "uploads/menu.png").
			Run(func(mock.Arguments) { panic("corrupt image data") }).
			Return("", nil).Once(),
		persistUoW.On("Begin", ctx).Return(nil).Once(),
		persistUoW.On("ImageJobRepository").Return(repo).Once(),
		repo.On("Update", mock.Anything, job).Return(nil).Once(),
		persistUoW.On("Commit", ctx).Return(nil).Once(),
		publisher.On("PublishJobEvent", mock.AnythingOfType("imagejob.Event")).Once(),
		publisher.On("CloseJob", job.ID()).Once(),
		persistUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(claimUoW).Once()
	factory.On("Create").Return(persistUoW).Once()

	h := commands.NewProcessImageJobCommandHandler(factory, processor, publisher)
	require.NoError(t, h.Handle(ctx, commands.NewProcessImageJobCommand()))
	require.Equal(t, imagejob.JobFailed, job.Status())
	require.Contains(t, job.FailReason(), "corrupt image data")
}
