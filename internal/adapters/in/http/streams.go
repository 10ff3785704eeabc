package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"foodfast/internal/core/application/usecases/queries"
	"foodfast/internal/core/domain/model/chat"
	"foodfast/internal/core/domain/model/imagejob"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/core/domain/model/order"
	"foodfast/internal/pkg/bus"
	"foodfast/internal/realtime"
)

// Streams serves the live side of the API as server-sent events. Each
// endpoint attaches a bus subscription for the duration of the request and
// forwards events until the client disconnects or the stream closes.
type Streams struct {
	bus       *bus.Bus
	locations *realtime.LocationStream
	relay     *realtime.ChatRelay
	orders    realtime.OrderStateReader

	getJobStatusHandler queries.GetJobStatusQueryHandler
}

// NewStreams creates the SSE surface.
func NewStreams(
	b *bus.Bus,
	locations *realtime.LocationStream,
	relay *realtime.ChatRelay,
	orders realtime.OrderStateReader,
	getJobStatusHandler queries.GetJobStatusQueryHandler,
) *Streams {
	return &Streams{
		bus:                 b,
		locations:           locations,
		relay:               relay,
		orders:              orders,
		getJobStatusHandler: getJobStatusHandler,
	}
}

// PublishLocation stamps and forwards a driver position into the stream.
func (s *Streams) PublishLocation(ctx context.Context, update realtime.LocationUpdate) error {
	update.RecordedAt = time.Now().UTC()
	return s.locations.Publish(ctx, update)
}

// StreamOrderEvents handles GET /api/v1/orders/:orderId/events. The current
// status is sent first so a late subscriber does not wait for the next
// transition to learn where the order stands.
func (s *Streams) StreamOrderEvents(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	aggregate, err := s.orders.Get(ctx.Request().Context(), orderID)
	if err != nil {
		return writeError(ctx, err, "Failed to open event stream")
	}

	sub := s.bus.Subscribe(order.Topic(orderID))
	defer s.bus.Unsubscribe(sub)

	startSSE(ctx)

	snapshot := orderEventResponse(order.Event{
		OrderID:    orderID,
		Status:     aggregate.Status(),
		DriverID:   aggregate.Driver(),
		OccurredAt: aggregate.UpdatedAt(),
	})
	if err = writeSSE(ctx, "order_status", snapshot); err != nil {
		return nil
	}
	if aggregate.IsTerminal() {
		return nil
	}

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case raw, ok := <-sub.Events():
			if !ok {
				return nil
			}
			event, isEvent := raw.(order.Event)
			if !isEvent {
				continue
			}
			if err = writeSSE(ctx, "order_status", orderEventResponse(event)); err != nil {
				return nil
			}
			if event.Status.IsTerminal() {
				return nil
			}
		}
	}
}

// StreamDriverLocation handles GET /api/v1/orders/:orderId/location/stream.
// The latest known position arrives first; a terminal order yields an
// immediately ended stream.
func (s *Streams) StreamDriverLocation(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	sub, snapshot, err := s.locations.Subscribe(ctx.Request().Context(), orderID)
	if err != nil {
		return writeError(ctx, err, "Failed to open location stream")
	}
	defer s.locations.Unsubscribe(sub)

	startSSE(ctx)

	if snapshot != nil {
		if err = writeSSE(ctx, "driver_location", locationResponse(*snapshot)); err != nil {
			return nil
		}
	}

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case raw, ok := <-sub.Events():
			if !ok {
				return nil
			}
			update, isUpdate := raw.(realtime.LocationUpdate)
			if !isUpdate {
				continue
			}
			if err = writeSSE(ctx, "driver_location", locationResponse(update)); err != nil {
				return nil
			}
		}
	}
}

// StreamChat handles GET /api/v1/chat/stream. All participants of a
// conversation attach to the same topic: pass peer for a direct dialog or
// order_id for an order's support thread. A message observed by its receiver
// is marked delivered as a side effect.
func (s *Streams) StreamChat(ctx echo.Context) error {
	self, err := kernel.UUIDFromString(ctx.QueryParam("self"))
	if err != nil {
		return badRequest(ctx, "Invalid self participant")
	}

	var sub *bus.Subscription
	if raw := ctx.QueryParam("order_id"); raw != "" {
		orderID, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return badRequest(ctx, "Invalid order_id")
		}
		sub, err = s.relay.SubscribeSupport(orderID)
	} else {
		peer, idErr := kernel.UUIDFromString(ctx.QueryParam("peer"))
		if idErr != nil {
			return badRequest(ctx, "Invalid peer participant")
		}
		sub, err = s.relay.Subscribe(self, peer)
	}
	if err != nil {
		return badRequest(ctx, "Invalid conversation: "+err.Error())
	}
	defer s.relay.Unsubscribe(sub)

	startSSE(ctx)

	requestCtx := ctx.Request().Context()
	done := requestCtx.Done()
	for {
		select {
		case <-done:
			return nil
		case raw, ok := <-sub.Events():
			if !ok {
				return nil
			}
			message, isMessage := raw.(*chat.Message)
			if !isMessage {
				continue
			}
			// best effort: a failed delivery record must not kill the stream
			_ = s.relay.Deliver(requestCtx, message, self)

			if err = writeSSE(ctx, "chat_message", messageResponse(message)); err != nil {
				return nil
			}
		}
	}
}

// StreamJobEvents handles GET /api/v1/uploads/:jobId/events. A job already
// in a terminal status yields its outcome and an immediately ended stream.
func (s *Streams) StreamJobEvents(ctx echo.Context) error {
	jobID, err := pathUUID(ctx, "jobId")
	if err != nil {
		return badRequest(ctx, "Invalid job id")
	}

	query, err := queries.NewGetJobStatusQuery(jobID)
	if err != nil {
		return badRequest(ctx, "Invalid job id")
	}

	// subscribe before the status read so a completion racing the snapshot
	// is not lost between the two
	sub := s.bus.Subscribe(imagejob.Topic(jobID))
	defer s.bus.Unsubscribe(sub)

	job, err := s.getJobStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err, "Failed to open job stream")
	}

	startSSE(ctx)

	snapshot := JobEventResponse{
		JobID:      job.ID.String(),
		Status:     job.Status.String(),
		FailReason: job.FailReason,
		OccurredAt: job.CreatedAt,
	}
	if job.CompletedAt != nil {
		snapshot.OccurredAt = *job.CompletedAt
	}
	if err = writeSSE(ctx, "job_status", snapshot); err != nil {
		return nil
	}
	if job.Status.IsTerminal() {
		return nil
	}

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case raw, ok := <-sub.Events():
			if !ok {
				return nil
			}
			event, isEvent := raw.(imagejob.Event)
			if !isEvent {
				continue
			}
			if err = writeSSE(ctx, "job_status", jobEventResponse(event)); err != nil {
				return nil
			}
			if event.Status.IsTerminal() {
				return nil
			}
		}
	}
}

func startSSE(ctx echo.Context) {
	header := ctx.Response().Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set(echo.HeaderCacheControl, "no-cache")
	header.Set(echo.HeaderConnection, "keep-alive")
	ctx.Response().WriteHeader(http.StatusOK)
	ctx.Response().Flush()
}

func writeSSE(ctx echo.Context, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintf(ctx.Response(), "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	ctx.Response().Flush()
	return nil
}

func orderEventResponse(event order.Event) OrderEventResponse {
	return OrderEventResponse{
		OrderID:    event.OrderID.String(),
		Status:     event.Status.String(),
		DriverID:   uuidString(event.DriverID),
		OccurredAt: event.OccurredAt,
	}
}

func locationResponse(update realtime.LocationUpdate) LocationResponse {
	return LocationResponse{
		OrderID:    update.OrderID.String(),
		DriverID:   update.DriverID.String(),
		Lat:        update.Point.Lat(),
		Lon:        update.Point.Lon(),
		RecordedAt: update.RecordedAt,
	}
}

func messageResponse(message *chat.Message) MessageResponse {
	return MessageResponse{
		ID:         message.ID().String(),
		SenderID:   message.SenderID().String(),
		ReceiverID: message.ReceiverID().String(),
		Body:       message.Body(),
		Delivered:  message.Delivered(),
		CreatedAt:  message.CreatedAt(),
	}
}

func jobEventResponse(event imagejob.Event) JobEventResponse {
	return JobEventResponse{
		JobID:      event.JobID.String(),
		Status:     event.Status.String(),
		FailReason: event.FailReason,
		OccurredAt: event.OccurredAt,
	}
}
