package bus_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"foodfast/internal/pkg/bus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishDeliversToAllSubscribers(t *testing.T) {
	b := bus.New()

	first := b.Subscribe("order:42")
	second := b.Subscribe("order:42")
	other := b.Subscribe("order:7")

	b.Publish("order:42", "confirmed")

	assert.Equal(t, "confirmed", <-first.Events())
	assert.Equal(t, "confirmed", <-second.Events())

	select {
	case evt := <-other.Events():
		t.Fatalf("subscriber on another topic received %v", evt)
	default:
	}
}

func TestBus_PublishWithoutSubscribersIsDropped(t *testing.T) {
	b := bus.New()

	// Must not panic or block
	b.Publish("order:42", "confirmed")

	assert.Equal(t, 0, b.SubscriberCount("order:42"))
}

func TestBus_PerTopicOrderingPreserved(t *testing.T) {
	b := bus.New()
	sub := b.SubscribeBuffered("order:42", 100)

	for i := range 50 {
		b.Publish("order:42", i)
	}

	for want := range 50 {
		got := <-sub.Events()
		require.Equal(t, want, got)
	}
}

func TestBus_SlowSubscriberNeverBlocksPublisher(t *testing.T) {
	b := bus.New()

	// Subscriber with a full buffer that nobody drains
	stalled := b.SubscribeBuffered("order:42", 1)
	healthy := b.SubscribeBuffered("order:42", 100)

	done := make(chan struct{})
	go func() {
		for i := range 20 {
			b.Publish("order:42", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a stalled subscriber")
	}

	// The healthy subscriber saw everything, the stalled one lost events.
	for want := range 20 {
		require.Equal(t, want, <-healthy.Events())
	}
	assert.Equal(t, int64(19), stalled.Dropped())
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	b := bus.New()
	sub := b.Subscribe("order:42")

	b.Unsubscribe(sub)
	b.Unsubscribe(sub)
	b.Unsubscribe(nil)

	_, open := <-sub.Events()
	assert.False(t, open)
	assert.Equal(t, 0, b.SubscriberCount("order:42"))
}

func TestBus_CloseTopicClosesAllSubscribers(t *testing.T) {
	b := bus.New()
	first := b.Subscribe("order:42")
	second := b.Subscribe("order:42")

	b.CloseTopic("order:42")
	b.CloseTopic("order:42") // no-op on unknown topic

	_, open := <-first.Events()
	assert.False(t, open)
	_, open = <-second.Events()
	assert.False(t, open)
	assert.Equal(t, 0, b.SubscriberCount("order:42"))

	// A later subscription on the same topic starts fresh.
	again := b.Subscribe("order:42")
	b.Publish("order:42", "delivered")
	assert.Equal(t, "delivered", <-again.Events())
}

func TestBus_ConcurrentPublishSubscribeUnsubscribe(t *testing.T) {
	b := bus.New()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			topic := fmt.Sprintf("order:%d", n%3)
			sub := b.Subscribe(topic)
			for j := range 100 {
				b.Publish(topic, j)
			}
			b.Unsubscribe(sub)
		}(i)
	}

	doneDraining := make(chan struct{})
	drain := b.SubscribeBuffered("order:0", 4)
	go func() {
		for range drain.Events() {
		}
		close(doneDraining)
	}()

	wg.Wait()
	b.CloseTopic("order:0")
	<-doneDraining
}
