package ports

import (
	"context"

	"foodfast/internal/core/domain/model/chat"
	"foodfast/internal/core/domain/model/kernel"
)

// ChatRepository defines the persistence contract for chat messages.
type ChatRepository interface {
	// Add persists a new message. The message must be valid and not
	// already exist in the repository.
	Add(ctx context.Context, message *chat.Message) error

	// Get retrieves a message by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*chat.Message, error)

	// GetConversation retrieves all messages of a conversation ordered by
	// creation time, oldest first.
	GetConversation(ctx context.Context, key chat.ConversationKey) ([]*chat.Message, error)

	// MarkDelivered flips the delivery flag of a message to true. The
	// operation is idempotent: marking an already delivered message is a
	// no-op, the flag never goes back to false.
	MarkDelivered(ctx context.Context, id kernel.UUID) error
}
