package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order. Cancelling an already
// cancelled order succeeds without writing anything or emitting another
// event, so retried cancel requests are harmless. Cancelling a delivered
// order is an invalid transition.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the cancel command and returns the order's resulting status.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return order.Unknown, err
	}

	oldStatus := aggregate.Status()
	changed, err := aggregate.Cancel()
	if err != nil {
		return order.Unknown, err
	}

	if !changed {
		// Idempotent repeat: nothing to persist or publish.
		return aggregate.Status(), nil
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	publishTransitions(ctx, h.publisher,
		transitionEvent(aggregate.ID(), oldStatus.String(), aggregate.Status().String(), cmd.Actor()))

	return aggregate.Status(), nil
}
