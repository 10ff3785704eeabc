package order

import (
	"time"

	"foodfast/internal/core/domain/model/kernel"
)

// Event is the ephemeral payload published on an order's topic whenever the
// order changes. Events exist only for bus delivery: they are created at each
// transition, consumed by zero or more subscribers, and then discarded. The
// order row in the store, not the event stream, is the source of truth.
type Event struct {
	OrderID    kernel.UUID
	Status     Status
	DriverID   *kernel.UUID
	OccurredAt time.Time
}

// Topic returns the bus topic carrying lifecycle events for an order.
func Topic(orderID kernel.UUID) string {
	return "order:" + orderID.String()
}
