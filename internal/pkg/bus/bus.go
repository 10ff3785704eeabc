// Package bus provides the in-process publish/subscribe primitive used to fan
// out order events, driver locations, chat messages, and job completions.
//
// The bus is a forwarding layer, not a message broker: delivery is best-effort
// with no durability, no replay, and no retries. Durable state lives in the
// store; an event published with zero subscribers is simply dropped.
//
// Guarantees:
//   - Publish never blocks, regardless of subscriber behavior.
//   - Events published on one topic reach each subscriber in publish order.
//   - A slow subscriber loses events once its buffer is full; it never
//     delays the publisher or other subscribers.
//
// Bus is safe for concurrent use by multiple goroutines.
package bus

import (
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the per-subscription channel capacity.
// A subscriber that falls more than this many events behind starts losing them.
const DefaultBufferSize = 16

// Subscription is a registration on a single topic. Events are received from
// the channel returned by Events. The channel is closed by Unsubscribe or by
// CloseTopic; receivers must treat a closed channel as end of stream.
type Subscription struct {
	topic   string
	ch      chan any
	dropped atomic.Int64

	closeOnce sync.Once
}

// Dropped reports how many events were lost because the subscriber's buffer
// was full at publish time.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

// Topic returns the topic this subscription is registered on.
func (s *Subscription) Topic() string {
	return s.topic
}

// Events returns the receive channel for the subscription.
func (s *Subscription) Events() <-chan any {
	return s.ch
}

// close is called with the bus write lock held, so it can never race a
// publisher holding the read lock mid-send.
func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.ch)
	})
}

// Bus is a topic-keyed fan-out registry. The zero value is not usable;
// create instances with New.
type Bus struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		topics: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscription on topic with the default buffer size.
func (b *Bus) Subscribe(topic string) *Subscription {
	return b.SubscribeBuffered(topic, DefaultBufferSize)
}

// SubscribeBuffered registers a new subscription on topic with an explicit
// buffer capacity. A non-positive size falls back to DefaultBufferSize.
func (b *Bus) SubscribeBuffered(topic string, size int) *Subscription {
	if size <= 0 {
		size = DefaultBufferSize
	}

	sub := &Subscription{
		topic: topic,
		ch:    make(chan any, size),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}

	return sub
}

// Unsubscribe removes the subscription and closes its channel.
// Unsubscribing an already removed subscription is a no-op.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.topics[sub.topic]
	if ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(b.topics, sub.topic)
		}
	}
	sub.close()
}

// Publish delivers event to every subscription currently registered on topic.
// The send to each subscriber is non-blocking: when a subscriber's buffer is
// full the event is dropped for that subscriber only.
func (b *Bus) Publish(topic string, event any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.topics[topic] {
		select {
		case sub.ch <- event:
		default:
			sub.dropped.Add(1)
		}
	}
}

// CloseTopic closes every subscription registered on topic and removes the
// topic from the registry. Closing an unknown topic is a no-op. Later
// subscriptions on the same topic start fresh.
func (b *Bus) CloseTopic(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.topics[topic] {
		sub.close()
	}
	delete(b.topics, topic)
}

// SubscriberCount reports the number of live subscriptions on topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.topics[topic])
}
