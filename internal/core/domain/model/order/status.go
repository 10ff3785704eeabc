package order

import (
	"errors"
	"fmt"

	"foodfast/internal/pkg/errs"
)

// Sentinel errors for the order lifecycle state machine.
var (
	// ErrInvalidTransition is returned when a requested status change is not
	// present in the transition table, including the case where a concurrent
	// writer already moved the order away from the status the caller read.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrPreconditionUnmet is returned when a transition is defined in the
	// table but its side condition does not hold, such as moving to PickedUp
	// without an assigned driver.
	ErrPreconditionUnmet = errors.New("order transition precondition unmet")
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure orders
// follow the correct business workflow.
//
// State transitions:
//
//	Confirmed ──> Preparing ──> PickedUp ──> Delivered
//	    │             │
//	    └─────────────┴──> Cancelled
//
// Transitions are monotonic: there is no path back to an earlier status, and
// Delivered and Cancelled are terminal. Cancellation is only reachable while
// the order has not been picked up.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Confirmed is the initial status when an order is placed and accepted.
	Confirmed

	// Preparing indicates the restaurant is working on the order.
	Preparing

	// PickedUp indicates a driver has collected the order for delivery.
	// Entering this status requires a driver to be assigned.
	PickedUp

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was abandoned before pickup. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Confirmed: "confirmed",
		Preparing: "preparing",
		PickedUp:  "picked_up",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Confirmed: "confirmed",
		Preparing: "preparing",
		PickedUp:  "picked_up",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

// transitions is the authoritative transition table.
// A valid status missing from the map is terminal.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		Confirmed: {Preparing, Cancelled},
		Preparing: {PickedUp, Cancelled},
		PickedUp:  {Delivered},
	}
}

// StatusFromString parses the persisted/wire representation of a status.
// Returns an error for unknown strings.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// This method implements the fmt.Stringer interface and is safe to call on
// any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is defined from s.
func (s Status) IsTerminal() bool {
	if s.Validate() != nil {
		return false
	}
	_, hasNext := transitions()[s]
	return !hasNext
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo validates the move from s to target against the transition
// table and returns the new status.
//
// Returns:
//   - (target, nil) on a valid transition
//   - (0, error wrapping ErrInvalidTransition) otherwise
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}

	if !s.CanTransitionTo(target) {
		return 0, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, target)
	}

	return target, nil
}
