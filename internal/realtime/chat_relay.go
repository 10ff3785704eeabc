package realtime

import (
	"context"

	"foodfast/internal/core/application/usecases/commands"
	"foodfast/internal/core/domain/model/chat"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/bus"
)

// DeliveryRecorder records that a message reached its receiver. Satisfied by
// commands.MarkMessageDeliveredCommandHandler.
type DeliveryRecorder interface {
	Handle(ctx context.Context, command commands.MarkMessageDeliveredCommand) error
}

// ChatRelay attaches live subscribers to conversations and confirms
// delivery when a message reaches the participant it was addressed to.
// Messages are durable before they ever hit the relay; a dropped relay
// event is recovered through the history query on reconnect.
type ChatRelay struct {
	bus      *bus.Bus
	recorder DeliveryRecorder
}

// NewChatRelay creates a relay over the given bus.
func NewChatRelay(b *bus.Bus, recorder DeliveryRecorder) *ChatRelay {
	return &ChatRelay{
		bus:      b,
		recorder: recorder,
	}
}

// Subscribe attaches a participant to their dialog with peer.
func (r *ChatRelay) Subscribe(self, peer kernel.UUID) (*bus.Subscription, error) {
	key, err := chat.NewDirectConversation(self, peer)
	if err != nil {
		return nil, err
	}

	return r.bus.Subscribe(key.String()), nil
}

// SubscribeSupport attaches a participant to the support thread of an order.
func (r *ChatRelay) SubscribeSupport(orderID kernel.UUID) (*bus.Subscription, error) {
	key, err := chat.NewSupportConversation(orderID)
	if err != nil {
		return nil, err
	}

	return r.bus.Subscribe(key.String()), nil
}

// Unsubscribe detaches a participant. Safe to call more than once.
func (r *ChatRelay) Unsubscribe(sub *bus.Subscription) {
	r.bus.Unsubscribe(sub)
}

// Deliver hands a relayed message to the subscriber identified by self and
// records delivery when self is the receiver. The delivered flag only moves
// false to true, so replays are harmless.
func (r *ChatRelay) Deliver(ctx context.Context, message *chat.Message, self kernel.UUID) error {
	if err := message.Validate(); err != nil {
		return err
	}

	receiverID := message.ReceiverID()
	if !receiverID.IsEqual(self) {
		return nil
	}

	command, err := commands.NewMarkMessageDeliveredCommand(message.ID())
	if err != nil {
		return err
	}

	return r.recorder.Handle(ctx, command)
}
