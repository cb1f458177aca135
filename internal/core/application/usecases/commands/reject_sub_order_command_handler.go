package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// RejectSubOrderCommandHandler records a store refusing its portion of an
// order. The domain model excludes the rejected portion from the order's
// totals and re-derives the aggregate status; when the last surviving
// portion is rejected the whole order becomes cancelled. Totals update and
// status change land in the same transaction, so observers never see a
// rejected portion still counted into the amounts.
type RejectSubOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewRejectSubOrderCommandHandler creates a handler for store rejections.
func NewRejectSubOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) RejectSubOrderCommandHandler {
	return RejectSubOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the command and returns the order's resulting status.
func (h RejectSubOrderCommandHandler) Handle(ctx context.Context, cmd RejectSubOrderCommand) (order.Status, error) {
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

	if err = aggregate.RejectSubOrder(cmd.SubOrderID(), cmd.Reason(), time.Now().UTC()); err != nil {
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
