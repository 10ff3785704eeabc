package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/core/domain/model/order"
	"foodfast/internal/pkg/bus"
)

// OrderStateReader is the narrow read surface the location stream needs to
// gate publishes and subscriptions on the order's current state.
type OrderStateReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// LocationUpdate is one driver GPS sample for an order in transit.
type LocationUpdate struct {
	OrderID    kernel.UUID
	DriverID   kernel.UUID
	Point      kernel.GeoPoint
	RecordedAt time.Time
}

// LocationStream fans driver positions out to order watchers with
// latest-snapshot semantics: a new subscriber immediately receives the most
// recent known position, then live updates. Intermediate positions may be
// dropped for slow consumers; only the newest one matters.
type LocationStream struct {
	bus    *bus.Bus
	orders OrderStateReader

	mu     sync.RWMutex
	latest map[string]LocationUpdate
}

// NewLocationStream creates a location stream over the given bus.
func NewLocationStream(b *bus.Bus, orders OrderStateReader) *LocationStream {
	return &LocationStream{
		bus:    b,
		orders: orders,
		latest: make(map[string]LocationUpdate),
	}
}

func locationTopic(orderID kernel.UUID) string {
	return "location:" + orderID.String()
}

// Publish records a driver position and fans it out to watchers. The order
// must be picked up and the reporting driver must be the one assigned;
// anything else returns order.ErrPreconditionUnmet.
func (s *LocationStream) Publish(ctx context.Context, update LocationUpdate) error {
	if err := update.Point.Validate(); err != nil {
		return err
	}
	if err := update.DriverID.Validate(); err != nil {
		return err
	}

	aggregate, err := s.orders.Get(ctx, update.OrderID)
	if err != nil {
		return err
	}

	if aggregate.Status() != order.PickedUp {
		return fmt.Errorf("%w: location updates require a picked up order, got %s",
			order.ErrPreconditionUnmet, aggregate.Status())
	}

	driver := aggregate.Driver()
	if driver == nil || !driver.IsEqual(update.DriverID) {
		return fmt.Errorf("%w: driver %s is not assigned to order %s",
			order.ErrPreconditionUnmet, update.DriverID, update.OrderID)
	}

	topic := locationTopic(update.OrderID)

	s.mu.Lock()
	s.latest[topic] = update
	s.mu.Unlock()

	s.bus.Publish(topic, update)

	return nil
}

// Subscribe attaches a watcher to an order's location stream. The returned
// snapshot is the latest known position, nil if none was recorded yet. For
// an order already in a terminal status the subscription comes back closed:
// the watcher observes end-of-stream instead of waiting forever.
func (s *LocationStream) Subscribe(ctx context.Context, orderID kernel.UUID) (*bus.Subscription, *LocationUpdate, error) {
	// Attach before reading the status. A terminal transition concurrent
	// with this call then either shows up in the read or closes the
	// already-attached subscription through CloseOrder; checking the
	// status first would leave a window where the topic close slips past
	// an unattached watcher.
	sub := s.bus.Subscribe(locationTopic(orderID))

	aggregate, err := s.orders.Get(ctx, orderID)
	if err != nil {
		s.bus.Unsubscribe(sub)
		return nil, nil, err
	}

	if aggregate.IsTerminal() {
		s.bus.Unsubscribe(sub)
		return sub, nil, nil
	}

	return sub, s.snapshot(orderID), nil
}

// Unsubscribe detaches a watcher. Safe to call more than once.
func (s *LocationStream) Unsubscribe(sub *bus.Subscription) {
	s.bus.Unsubscribe(sub)
}

// Latest returns the most recent known position for an order.
func (s *LocationStream) Latest(orderID kernel.UUID) (LocationUpdate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	update, ok := s.latest[locationTopic(orderID)]
	return update, ok
}

// CloseOrder drops the order's snapshot and closes its fan-out topic.
func (s *LocationStream) CloseOrder(orderID kernel.UUID) {
	topic := locationTopic(orderID)

	s.mu.Lock()
	delete(s.latest, topic)
	s.mu.Unlock()

	s.bus.CloseTopic(topic)
}

func (s *LocationStream) snapshot(orderID kernel.UUID) *LocationUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if update, ok := s.latest[locationTopic(orderID)]; ok {
		return &update
	}
	return nil
}
