package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// FinishPreparingCommandHandler marks one store's sub-order as ready for
// delivery. When every surviving sub-order is ready the aggregate derives
// to ReadyForDelivery and the driver may collect the order.
type FinishPreparingCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewFinishPreparingCommandHandler creates a handler for stores finishing
// preparation.
func NewFinishPreparingCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) FinishPreparingCommandHandler {
	return FinishPreparingCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the command and returns the order's resulting status.
func (h FinishPreparingCommandHandler) Handle(ctx context.Context, cmd FinishPreparingCommand) (order.Status, error) {
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

	if err = aggregate.FinishPreparing(cmd.SubOrderID(), time.Now().UTC()); err != nil {
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
