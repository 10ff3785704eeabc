package realtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodfast/internal/core/application/usecases/commands"
	"foodfast/internal/core/domain/model/chat"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/bus"
	"foodfast/internal/realtime"
)

type MockDeliveryRecorder struct{ mock.Mock }

func (m *MockDeliveryRecorder) Handle(ctx context.Context, command commands.MarkMessageDeliveredCommand) error {
	args := m.Called(ctx, command)
	return args.Error(0)
}

func newTestMessage(t *testing.T, senderID, receiverID kernel.UUID) *chat.Message {
	t.Helper()
	key, err := chat.NewDirectConversation(senderID, receiverID)
	require.NoError(t, err)
	message, err := chat.NewMessage(kernel.NewUUID(), senderID, receiverID, key, "on my way", time.Now().UTC())
	require.NoError(t, err)
	return message
}

func TestChatRelayBothParticipantsShareOneConversation(t *testing.T) {
	b := bus.New()
	relay := realtime.NewChatRelay(b, new(MockDeliveryRecorder))

	driver := kernel.NewUUID()
	customer := kernel.NewUUID()

	driverSub, err := relay.Subscribe(driver, customer)
	require.NoError(t, err)
	customerSub, err := relay.Subscribe(customer, driver)
	require.NoError(t, err)
	defer relay.Unsubscribe(driverSub)
	defer relay.Unsubscribe(customerSub)

	assert.Equal(t, driverSub.Topic(), customerSub.Topic())

	message := newTestMessage(t, driver, customer)
	b.Publish(message.Conversation().String(), message)

	received := (<-customerSub.Events()).(*chat.Message)
	assert.Equal(t, "on my way", received.Body())

	echoed := (<-driverSub.Events()).(*chat.Message)
	receivedID := received.ID()
	assert.True(t, echoed.ID().IsEqual(receivedID))
}

func TestChatRelaySupportThreadIsScopedToOrder(t *testing.T) {
	b := bus.New()
	relay := realtime.NewChatRelay(b, new(MockDeliveryRecorder))

	orderID := kernel.NewUUID()
	customer := kernel.NewUUID()
	agent := kernel.NewUUID()

	customerSub, err := relay.SubscribeSupport(orderID)
	require.NoError(t, err)
	agentSub, err := relay.SubscribeSupport(orderID)
	require.NoError(t, err)
	otherOrderSub, err := relay.SubscribeSupport(kernel.NewUUID())
	require.NoError(t, err)
	defer relay.Unsubscribe(customerSub)
	defer relay.Unsubscribe(agentSub)
	defer relay.Unsubscribe(otherOrderSub)

	assert.Equal(t, customerSub.Topic(), agentSub.Topic())
	assert.NotEqual(t, customerSub.Topic(), otherOrderSub.Topic())

	key, err := chat.NewSupportConversation(orderID)
	require.NoError(t, err)
	message, err := chat.NewMessage(kernel.NewUUID(), customer, agent, key, "order arrived cold", time.Now().UTC())
	require.NoError(t, err)
	b.Publish(message.Conversation().String(), message)

	received := (<-agentSub.Events()).(*chat.Message)
	assert.Equal(t, "order arrived cold", received.Body())
	assert.Empty(t, otherOrderSub.Events())
}

func TestChatRelayDeliverRecordsForReceiverOnly(t *testing.T) {
	ctx := t.Context()
	sender := kernel.NewUUID()
	receiver := kernel.NewUUID()
	message := newTestMessage(t, sender, receiver)

	recorder := new(MockDeliveryRecorder)
	recorder.On("Handle", mock.Anything, mock.AnythingOfType("commands.MarkMessageDeliveredCommand")).
		Return(nil).Once()

	relay := realtime.NewChatRelay(bus.New(), recorder)

	// the sender's own copy does not confirm delivery
	require.NoError(t, relay.Deliver(ctx, message, sender))
	recorder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)

	// the receiver's copy does
	require.NoError(t, relay.Deliver(ctx, message, receiver))
	recorder.AssertExpectations(t)
}
