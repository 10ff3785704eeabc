package commands

import (
	"context"
)

// MarkMessageDeliveredCommandHandler records that a message reached its
// receiver. The repository write is idempotent, so replays from the relay or
// from a reconnecting client are harmless.
type MarkMessageDeliveredCommandHandler struct {
	uowFactory ChatUoWFactory
}

// NewMarkMessageDeliveredCommandHandler creates a handler for delivery
// confirmation.
func NewMarkMessageDeliveredCommandHandler(uowFactory ChatUoWFactory) MarkMessageDeliveredCommandHandler {
	return MarkMessageDeliveredCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the delivery confirmation command.
func (h MarkMessageDeliveredCommandHandler) Handle(ctx context.Context, command MarkMessageDeliveredCommand) error {
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

	if err := uow.ChatRepository().MarkDelivered(ctx, command.MessageID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
