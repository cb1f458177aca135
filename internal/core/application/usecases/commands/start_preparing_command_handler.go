package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// StartPreparingCommandHandler moves one store's sub-order into preparation.
// The aggregate status is re-derived from all sub-orders inside the domain
// model, so this handler only loads, mutates and saves.
type StartPreparingCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewStartPreparingCommandHandler creates a handler for stores starting
// preparation.
func NewStartPreparingCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) StartPreparingCommandHandler {
	return StartPreparingCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the command and returns the order's resulting status.
func (h StartPreparingCommandHandler) Handle(ctx context.Context, cmd StartPreparingCommand) (order.Status, error) {
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

	aggregate, err := uow.OrderRepository().GetBySubOrder(ctx, cmd.SubOrderID())
	if err != nil {
		return order.Unknown, err
	}

	subOrder, err := aggregate.SubOrder(cmd.SubOrderID())
	if err != nil {
		return order.Unknown, err
	}

	oldStatus := aggregate.Status()
	oldSubStatus := subOrder.Status()

	if err = aggregate.StartPreparing(cmd.SubOrderID(), time.Now().UTC()); err != nil {
		return order.Unknown, err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	events := []ports.TransitionEvent{
		subOrderTransitionEvent(aggregate.ID(), subOrder.ID(),
			oldSubStatus.String(), subOrder.Status().String(), ActorStore),
	}
	if aggregate.Status() != oldStatus {
		events = append(events,
			transitionEvent(aggregate.ID(), oldStatus.String(), aggregate.Status().String(), ActorStore))
	}
	publishTransitions(ctx, h.publisher, events...)

	return aggregate.Status(), nil
}
