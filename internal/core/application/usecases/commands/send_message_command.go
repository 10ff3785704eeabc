package commands

import (
	"errors"

	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/errs"
	"foodfast/internal/pkg/guard"
)

var ErrSendMessageCommandIsNotConstructed = errors.New(
	"SendMessageCommand must be created via NewSendMessageCommand constructor",
)

// SendMessageCommand represents a request to send a chat message between two
// participants of an order. The message is persisted first and only then
// relayed to live subscribers, so a crash between the two steps can lose the
// relay but never the message.
type SendMessageCommand struct { //nolint:recvcheck //using for validation
	messageID  kernel.UUID
	senderID   kernel.UUID
	receiverID kernel.UUID
	orderID    *kernel.UUID
	body       string

	guard guard.ConstructorGuard
}

// NewSendMessageCommand creates a command to send a direct chat message.
// Validates all identifiers and requires a non-empty body.
func NewSendMessageCommand(messageID, senderID, receiverID kernel.UUID, body string) (SendMessageCommand, error) {
	command := SendMessageCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setMessageID(messageID),
		command.setSenderID(senderID),
		command.setReceiverID(receiverID),
		command.setBody(body),
	); err != nil {
		return SendMessageCommand{}, err
	}

	return command, nil
}

// NewSupportMessageCommand creates a command to send a message into the
// support thread of an order instead of the direct dialog of its
// participants.
func NewSupportMessageCommand(
	messageID, senderID, receiverID, orderID kernel.UUID,
	body string,
) (SendMessageCommand, error) {
	command, err := NewSendMessageCommand(messageID, senderID, receiverID, body)
	if err != nil {
		return SendMessageCommand{}, err
	}

	if err = command.setOrderID(orderID); err != nil {
		return SendMessageCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SendMessageCommand) Validate() error {
	return c.guard.Validate(ErrSendMessageCommandIsNotConstructed)
}

// MessageID returns the unique identifier for the message.
func (c SendMessageCommand) MessageID() kernel.UUID {
	return c.messageID
}

// SenderID returns the participant sending the message.
func (c SendMessageCommand) SenderID() kernel.UUID {
	return c.senderID
}

// ReceiverID returns the participant the message is addressed to.
func (c SendMessageCommand) ReceiverID() kernel.UUID {
	return c.receiverID
}

// OrderID returns the order the message is scoped to, or nil for a direct
// message.
func (c SendMessageCommand) OrderID() *kernel.UUID {
	return c.orderID
}

// Body returns the message text.
func (c SendMessageCommand) Body() string {
	return c.body
}

func (c *SendMessageCommand) setMessageID(messageID kernel.UUID) error {
	if err := messageID.Validate(); err != nil {
		return err
	}

	c.messageID = messageID
	return nil
}

func (c *SendMessageCommand) setSenderID(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return err
	}

	c.senderID = senderID
	return nil
}

func (c *SendMessageCommand) setReceiverID(receiverID kernel.UUID) error {
	if err := receiverID.Validate(); err != nil {
		return err
	}

	c.receiverID = receiverID
	return nil
}

func (c *SendMessageCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = &orderID
	return nil
}

func (c *SendMessageCommand) setBody(body string) error {
	if body == "" {
		return errs.NewValueIsRequiredError("body")
	}

	c.body = body
	return nil
}
