// Package order provides domain entities and business logic for the order
// lifecycle. It implements the Order aggregate root with lifecycle management
// and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, driver assignment, and lifecycle
//   - Status: A state machine that enforces valid order status transitions
//   - Event: The ephemeral payload published on the order's bus topic at each transition
//
// Key business rules:
//   - Order status follows a defined workflow: confirmed -> preparing -> picked_up -> delivered
//   - Cancellation is possible from confirmed or preparing only
//   - Moving to picked_up requires an assigned driver
//   - Delivered and cancelled are terminal; transitions are monotonic
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
