// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"foodfast/internal/core/domain/model/chat"
	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/core/domain/model/order"
	"foodfast/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ChatRepoFactory provides access to chat repository within a transaction.
	ChatRepoFactory interface {
		ChatRepository() ports.ChatRepository
	}

	// ImageJobRepoFactory provides access to image job repository within a transaction.
	ImageJobRepoFactory interface {
		ImageJobRepository() ports.ImageJobRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// ChatUoW manages transactions for chat-only operations.
	ChatUoW interface {
		TxManager
		ChatRepoFactory
	}

	// ChatUoWFactory creates new chat unit of work instances.
	ChatUoWFactory interface {
		Create() ChatUoW
	}

	// JobUoW manages transactions for image job operations.
	JobUoW interface {
		TxManager
		ImageJobRepoFactory
	}

	// JobUoWFactory creates new job unit of work instances.
	JobUoWFactory interface {
		Create() JobUoW
	}
)

// Event publisher interfaces decouple command handlers from the in-process
// bus. Handlers publish after a successful commit; delivery to subscribers is
// best-effort and never blocks the caller.
type (
	// OrderEventPublisher broadcasts order lifecycle events.
	OrderEventPublisher interface {
		// PublishOrderEvent fans an event out to the order's subscribers.
		PublishOrderEvent(event order.Event)

		// CloseOrder closes all streams attached to the order after it
		// reaches a terminal status.
		CloseOrder(orderID kernel.UUID)
	}

	// ChatEventPublisher broadcasts persisted chat messages to live
	// conversation subscribers.
	ChatEventPublisher interface {
		PublishMessage(message *chat.Message)
	}

	// JobEventPublisher broadcasts image job status changes.
	JobEventPublisher interface {
		PublishJobEvent(event imagejob.Event)

		// CloseJob closes the job's event stream once the job is terminal.
		CloseJob(jobID kernel.UUID)
	}
)
