package commands

import (
	"context"
	"time"

	"foodfast/internal/core/domain/model/chat"
)

// SendMessageCommandHandler persists a chat message and relays it to live
// conversation subscribers. Persist happens inside the transaction; the
// relay happens after commit, so subscribers only ever see durable messages.
type SendMessageCommandHandler struct {
	uowFactory ChatUoWFactory
	publisher  ChatEventPublisher
}

// NewSendMessageCommandHandler creates a handler for sending chat messages.
func NewSendMessageCommandHandler(uowFactory ChatUoWFactory, publisher ChatEventPublisher) SendMessageCommandHandler {
	return SendMessageCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the send command. Direct messages land in the dialog
// keyed by the two participants, so both directions share one history;
// order-scoped messages land in the order's support thread instead.
func (h SendMessageCommandHandler) Handle(ctx context.Context, command SendMessageCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	conversation, err := conversationFor(command)
	if err != nil {
		return err
	}

	message, err := chat.NewMessage(
		command.MessageID(),
		command.SenderID(),
		command.ReceiverID(),
		conversation,
		command.Body(),
		time.Now().UTC(),
	)
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

	if err = uow.ChatRepository().Add(ctx, message); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishMessage(message)

	return nil
}

func conversationFor(command SendMessageCommand) (chat.ConversationKey, error) {
	if orderID := command.OrderID(); orderID != nil {
		return chat.NewSupportConversation(*orderID)
	}

	return chat.NewDirectConversation(command.SenderID(), command.ReceiverID())
}
