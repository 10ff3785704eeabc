package order

import (
	"errors"
	"fmt"
	"time"

	"foodfast/internal/core/domain/model/kernel"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrDriverAssignmentNotAllowed is returned when a driver is assigned to an
	// order whose status no longer permits dispatch.
	ErrDriverAssignmentNotAllowed = errors.New("driver can only be assigned while the order is confirmed or preparing")
)

// Order represents a food-delivery order in the system. It is the aggregate
// root that manages the order lifecycle from confirmation through preparation
// and pickup to delivery.
//
// Order follows these invariants:
//   - Must have valid customer and restaurant identifiers
//   - The driver reference stays unset until a driver is dispatched
//   - Status transitions follow the state machine graph; no backward moves
//   - Moving to PickedUp requires an assigned driver
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID

	// driverID is the assigned driver's ID (nil until dispatch)
	driverID *kernel.UUID

	status    Status
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a new Order in Confirmed status with validation.
// This is the entry point of the lifecycle: the surrounding ordering surface
// has already taken payment details and accepted the order.
func NewOrder(id, customerID, restaurantID kernel.UUID, now time.Time) (*Order, error) {
	order := &Order{
		status:        Confirmed,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setRestaurantID(restaurantID),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order from persisted state.
// Used by repositories when mapping database rows back to the aggregate.
func RestoreOrder(
	id, customerID, restaurantID kernel.UUID,
	driverID *kernel.UUID,
	status Status,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	order := &Order{
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		driverID:      driverID,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setRestaurantID(restaurantID),
		order.setStatus(status),
	); err != nil {
		return nil, err
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the identifier of the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the identifier of the restaurant fulfilling the order.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// Driver returns the assigned driver's ID, or nil if no driver is assigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// Status returns the current lifecycle status of the order.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns the time the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the time of the last lifecycle change.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsTerminal reports whether the order reached a final status.
func (o *Order) IsTerminal() bool {
	return o.status.IsTerminal()
}

// AssignDriver dispatches a driver to the order.
//
// Business rules:
//   - The driver ID must be valid
//   - Dispatch is only allowed while the order is Confirmed or Preparing;
//     once picked up or finished the assignment is frozen
//   - Reassignment before pickup is allowed
func (o *Order) AssignDriver(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if o.status != Confirmed && o.status != Preparing {
		return fmt.Errorf("%w: status is %s", ErrDriverAssignmentNotAllowed, o.status)
	}

	o.driverID = &driverID
	o.updatedAt = now
	return nil
}

// TransitionTo moves the order to target, enforcing the state machine graph
// and the driver precondition for pickup.
//
// Returns:
//   - nil on success; the status and updatedAt timestamp are changed
//   - error wrapping ErrPreconditionUnmet when targeting PickedUp without a
//     driver, regardless of the current status
//   - error wrapping ErrInvalidTransition if the move is not in the table
//
// On any error the order is left unchanged.
func (o *Order) TransitionTo(target Status, now time.Time) error {
	if target == PickedUp && o.driverID == nil {
		return fmt.Errorf("%w: no driver assigned for pickup", ErrPreconditionUnmet)
	}

	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.updatedAt = now
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.customerID = id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
