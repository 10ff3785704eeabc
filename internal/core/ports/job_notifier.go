package ports

// JobNotifier wakes the background worker pool when new work is enqueued,
// so workers pick up fresh jobs immediately instead of waiting for the next
// poll tick.
type JobNotifier interface {
	// Wake signals that at least one pending job may be available. Wake
	// never blocks; redundant wakes are coalesced.
	Wake()
}
