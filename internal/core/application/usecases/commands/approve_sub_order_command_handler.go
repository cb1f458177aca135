package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ApproveSubOrderCommandHandler records a store's final sign-off on its
// portion. Approval out of order (for example on a portion that has not
// been prepared) is rejected by the domain model and surfaces as an
// InvalidTransition error.
type ApproveSubOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewApproveSubOrderCommandHandler creates a handler for store approvals.
func NewApproveSubOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) ApproveSubOrderCommandHandler {
	return ApproveSubOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the command and returns the order's resulting status.
func (h ApproveSubOrderCommandHandler) Handle(ctx context.Context, cmd ApproveSubOrderCommand) (order.Status, error) {
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

	if err = aggregate.ApproveSubOrder(cmd.SubOrderID(), time.Now().UTC()); err != nil {
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
