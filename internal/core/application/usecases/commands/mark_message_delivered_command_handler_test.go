package commands_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodfast/internal/core/application/usecases/commands"
	"foodfast/internal/core/domain/model/kernel"
)

func TestMarkMessageDeliveredCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	messageID := kernel.NewUUID()
	cmd, err := commands.NewMarkMessageDeliveredCommand(messageID)
	require.NoError(t, err)

	repo := new(MockChatRepository)
	uow := new(MockChatUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ChatRepository").Return(repo).Once(),
		repo.On("MarkDelivered", mock.Anything, messageID).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockChatUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewMarkMessageDeliveredCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestMarkMessageDeliveredCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	var cmd commands.MarkMessageDeliveredCommand
	factory := new(MockChatUoWFactory)

	h := commands.NewMarkMessageDeliveredCommandHandler(factory)
	require.Error(t, h.Handle(ctx, cmd))
	factory.AssertNotCalled(t, "Create")
}
