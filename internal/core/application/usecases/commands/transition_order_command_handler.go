package commands

import (
	"context"
	"time"

	"foodfast/internal/core/domain/model/order"
)

// TransitionOrderCommandHandler moves an order through its lifecycle.
//
// Concurrent transitions on the same order are serialized by the repository:
// Update carries the status the handler read, and the store applies the write
// only if the row still holds that status. When two callers race, exactly one
// commit wins; the loser surfaces order.ErrInvalidTransition just as if it
// had requested an impossible step.
//
// Example:
//
//	handler := NewTransitionOrderCommandHandler(uowFactory, publisher)
//	cmd, _ := NewTransitionOrderCommand(orderID, order.PickedUp)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrInvalidTransition):
//	    // impossible step or lost a concurrent race
//	case errors.Is(err, order.ErrPreconditionUnmet):
//	    // pickup requested with no driver assigned
//	}
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  OrderEventPublisher
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory, publisher OrderEventPublisher) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the transition command. On success an order event is
// published to the order's subscribers; a transition into a terminal status
// additionally closes all streams attached to the order.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, command TransitionOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	expected := aggregate.Status()
	now := time.Now().UTC()
	if err = aggregate.TransitionTo(command.Target(), now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate, expected); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishOrderEvent(order.Event{
		OrderID:    aggregate.ID(),
		Status:     aggregate.Status(),
		DriverID:   aggregate.Driver(),
		OccurredAt: now,
	})

	if aggregate.IsTerminal() {
		h.publisher.CloseOrder(aggregate.ID())
	}

	return nil
}
