package commands

import (
	"context"
	"time"

	"foodfast/internal/core/domain/model/order"
	"foodfast/internal/core/domain/services"
)

// AssignDriverCommandHandler attaches a driver to an order through the
// configured assignment policy. The write uses the same compare-and-set
// guard as status transitions, so assignment cannot clobber a concurrent
// status change.
type AssignDriverCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.DriverAssignmentPolicy
	publisher  OrderEventPublisher
}

// NewAssignDriverCommandHandler creates a handler for driver assignment.
func NewAssignDriverCommandHandler(
	uowFactory OrderUoWFactory,
	policy services.DriverAssignmentPolicy,
	publisher OrderEventPublisher,
) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		publisher:  publisher,
	}
}

// Handle processes the assignment command and publishes an order event on
// success so subscribers observe the new driver.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, command AssignDriverCommand) error {
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
	if err = h.policy.Assign(aggregate, command.DriverID(), now); err != nil {
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

	return nil
}
