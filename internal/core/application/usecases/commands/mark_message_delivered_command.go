package commands

import (
	"errors"

	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/guard"
)

var ErrMarkMessageDeliveredCommandIsNotConstructed = errors.New(
	"MarkMessageDeliveredCommand must be created via NewMarkMessageDeliveredCommand constructor",
)

// MarkMessageDeliveredCommand represents a request to flip a message's
// delivery flag. The flag moves false to true exactly once; repeating the
// command is a no-op.
type MarkMessageDeliveredCommand struct { //nolint:recvcheck //using for validation
	messageID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkMessageDeliveredCommand creates a command to mark a message delivered.
func NewMarkMessageDeliveredCommand(messageID kernel.UUID) (MarkMessageDeliveredCommand, error) {
	command := MarkMessageDeliveredCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setMessageID(messageID); err != nil {
		return MarkMessageDeliveredCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkMessageDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkMessageDeliveredCommandIsNotConstructed)
}

// MessageID returns the message to mark delivered.
func (c MarkMessageDeliveredCommand) MessageID() kernel.UUID {
	return c.messageID
}

func (c *MarkMessageDeliveredCommand) setMessageID(messageID kernel.UUID) error {
	if err := messageID.Validate(); err != nil {
		return err
	}

	c.messageID = messageID
	return nil
}
