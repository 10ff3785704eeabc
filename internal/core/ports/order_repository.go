// Package ports defines the outbound contracts of the order coordination core.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate with a
	// compare-and-set guard: the write succeeds only if the stored status
	// still equals expected. Concurrent writers race on the same row; the
	// loser gets order.ErrInvalidTransition and must re-read if it wants
	// to retry.
	Update(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllActive retrieves all orders that have not reached a terminal
	// status, ordered by creation time.
	GetAllActive(ctx context.Context) ([]*order.Order, error)
}
