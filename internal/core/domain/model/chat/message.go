package chat

import (
	"errors"
	"time"

	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/errs"
)

var (
	// ErrMessageIsNotConstructed is returned when a Message instance was not
	// created through the NewMessage or RestoreMessage factory methods.
	ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage or RestoreMessage")
)

// Message is a chat message exchanged within one conversation.
//
// The delivered flag is the relay's acknowledgement record: it transitions
// false -> true exactly once, when the intended receiver's active
// subscription confirms receipt, and never reverts. A message that was sent
// while the receiver was offline stays undelivered until the receiver picks
// it up through a history fetch.
type Message struct {
	id           kernel.UUID
	senderID     kernel.UUID
	receiverID   kernel.UUID
	conversation ConversationKey
	body         string
	createdAt    time.Time
	delivered    bool

	isConstructed bool
}

// NewMessage creates a new undelivered Message with validation.
func NewMessage(
	id, senderID, receiverID kernel.UUID,
	conversation ConversationKey,
	body string,
	now time.Time,
) (*Message, error) {
	message := &Message{
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		message.setID(id),
		message.setSenderID(senderID),
		message.setReceiverID(receiverID),
		message.setConversation(conversation),
		message.setBody(body),
	); err != nil {
		return nil, err
	}

	return message, nil
}

// RestoreMessage reconstructs a Message from persisted state.
func RestoreMessage(
	id, senderID, receiverID kernel.UUID,
	conversation ConversationKey,
	body string,
	createdAt time.Time,
	delivered bool,
) (*Message, error) {
	message, err := NewMessage(id, senderID, receiverID, conversation, body, createdAt)
	if err != nil {
		return nil, err
	}

	message.delivered = delivered
	return message, nil
}

// Validate ensures the Message instance was properly constructed.
func (m *Message) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

// ID returns the message identifier.
func (m *Message) ID() kernel.UUID {
	return m.id
}

// SenderID returns the sending participant's identifier.
func (m *Message) SenderID() kernel.UUID {
	return m.senderID
}

// ReceiverID returns the intended receiver's identifier.
func (m *Message) ReceiverID() kernel.UUID {
	return m.receiverID
}

// Conversation returns the key of the conversation the message belongs to.
func (m *Message) Conversation() ConversationKey {
	return m.conversation
}

// Body returns the message text.
func (m *Message) Body() string {
	return m.body
}

// CreatedAt returns the creation time of the message.
func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

// Delivered reports whether the receiver has confirmed receipt.
func (m *Message) Delivered() bool {
	return m.delivered
}

// MarkDelivered records the receiver's acknowledgement.
// Marking an already delivered message is a no-op, so the flag is monotonic.
func (m *Message) MarkDelivered() {
	m.delivered = true
}

func (m *Message) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Message) setSenderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.senderID = id
	return nil
}

func (m *Message) setReceiverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.receiverID = id
	return nil
}

func (m *Message) setConversation(key ConversationKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	m.conversation = key
	return nil
}

func (m *Message) setBody(body string) error {
	if body == "" {
		return errs.NewValueIsRequiredError("body")
	}
	m.body = body
	return nil
}
