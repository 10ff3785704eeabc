package queries

import (
	"errors"
	"time"

	"foodfast/internal/core/domain/model/chat"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/guard"
)

var ErrGetChatHistoryQueryIsNotConstructed = errors.New(
	"GetChatHistoryQuery must be created via NewGetChatHistoryQuery constructor",
)

// GetChatHistoryQuery retrieves the full message history of a conversation,
// either the direct dialog of two participants or the support thread of an
// order, oldest first. Clients run it on reconnect to reconcile anything the
// live relay dropped while they were away.
type GetChatHistoryQuery struct { //nolint:recvcheck //using for validation
	conversation chat.ConversationKey

	guard guard.ConstructorGuard
}

// NewGetChatHistoryQuery creates a query for the dialog between two
// participants. The key is order-independent: either participant can ask.
func NewGetChatHistoryQuery(participantA, participantB kernel.UUID) (GetChatHistoryQuery, error) {
	query := GetChatHistoryQuery{
		guard: guard.NewConstructorGuard(),
	}

	conversation, err := chat.NewDirectConversation(participantA, participantB)
	if err != nil {
		return GetChatHistoryQuery{}, err
	}
	query.conversation = conversation

	return query, nil
}

// NewSupportChatHistoryQuery creates a query for the support thread of an
// order.
func NewSupportChatHistoryQuery(orderID kernel.UUID) (GetChatHistoryQuery, error) {
	query := GetChatHistoryQuery{
		guard: guard.NewConstructorGuard(),
	}

	conversation, err := chat.NewSupportConversation(orderID)
	if err != nil {
		return GetChatHistoryQuery{}, err
	}
	query.conversation = conversation

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetChatHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetChatHistoryQueryIsNotConstructed)
}

// Conversation returns the conversation key being read.
func (q GetChatHistoryQuery) Conversation() chat.ConversationKey {
	return q.conversation
}

// GetChatHistoryQueryResponse represents one message in a conversation.
type GetChatHistoryQueryResponse struct {
	ID         kernel.UUID
	SenderID   kernel.UUID
	ReceiverID kernel.UUID
	Body       string
	Delivered  bool
	CreatedAt  time.Time
}
