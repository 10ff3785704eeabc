// Package realtime provides the live fan-out layer on top of the in-process
// event bus: order lifecycle streams, driver location streams with
// latest-snapshot semantics, and the chat relay. Delivery to subscribers is
// best-effort; durable state always lives in the database, and clients
// reconcile through queries after a reconnect.
package realtime
