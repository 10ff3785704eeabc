package realtime

import (
	"foodfast/internal/core/domain/model/chat"
	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/core/domain/model/order"
	"foodfast/internal/pkg/bus"
)

// Publisher bridges command handlers to the in-process bus. Publishing
// never blocks: a slow subscriber drops events instead of stalling the
// writer.
type Publisher struct {
	bus       *bus.Bus
	locations *LocationStream
}

// NewPublisher creates a publisher over the given bus. The location stream
// is needed so closing an order also tears down its location fan-out.
func NewPublisher(b *bus.Bus, locations *LocationStream) *Publisher {
	return &Publisher{
		bus:       b,
		locations: locations,
	}
}

// PublishOrderEvent fans an order lifecycle event out to the order's
// subscribers.
func (p *Publisher) PublishOrderEvent(event order.Event) {
	p.bus.Publish(order.Topic(event.OrderID), event)
}

// CloseOrder closes the order's event stream and location stream. Called
// after the order reaches a terminal status; late subscribers get a closed
// channel immediately.
func (p *Publisher) CloseOrder(orderID kernel.UUID) {
	p.bus.CloseTopic(order.Topic(orderID))
	p.locations.CloseOrder(orderID)
}

// PublishMessage fans a persisted chat message out to the conversation's
// live subscribers.
func (p *Publisher) PublishMessage(message *chat.Message) {
	p.bus.Publish(message.Conversation().String(), message)
}

// PublishJobEvent fans an image job status change out to clients waiting on
// the upload.
func (p *Publisher) PublishJobEvent(event imagejob.Event) {
	p.bus.Publish(imagejob.Topic(event.JobID), event)
}

// CloseJob closes the job's event stream once the job is terminal.
func (p *Publisher) CloseJob(jobID kernel.UUID) {
	p.bus.CloseTopic(imagejob.Topic(jobID))
}
