package services

import (
	"errors"
	"fmt"
	"time"

	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/core/domain/model/order"
)

// ErrAssignmentRejected is returned when an assignment policy refuses to
// attach a driver to an order.
var ErrAssignmentRejected = errors.New("driver assignment rejected")

// DriverAssignmentPolicy decides whether a driver may be attached to an
// order. The policy is a pluggable seam: dispatch today is manual (an
// operator names the driver), but an automatic matcher can replace it
// without touching the command layer.
type DriverAssignmentPolicy interface {
	// Assign attaches driverID to the order, applying policy checks on top
	// of the aggregate's own rules.
	Assign(o *order.Order, driverID kernel.UUID, now time.Time) error
}

// ManualAssignmentPolicy assigns exactly the driver the caller named. It
// validates the inputs and delegates the status check to the aggregate:
// drivers can be attached or swapped until the food leaves the restaurant.
type ManualAssignmentPolicy struct{}

// NewManualAssignmentPolicy creates a manual assignment policy.
func NewManualAssignmentPolicy() ManualAssignmentPolicy {
	return ManualAssignmentPolicy{}
}

// Assign attaches driverID to the order.
func (p ManualAssignmentPolicy) Assign(o *order.Order, driverID kernel.UUID, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if err := driverID.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrAssignmentRejected, err)
	}

	if o.IsTerminal() {
		return fmt.Errorf("%w: order %s is %s", ErrAssignmentRejected, o.ID(), o.Status())
	}

	return o.AssignDriver(driverID, now)
}
