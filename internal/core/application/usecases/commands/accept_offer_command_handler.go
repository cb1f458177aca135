package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// AcceptOfferCommandHandler resolves the competitive driver accept.
//
// The race is settled by optimistic concurrency: the assignment is loaded
// with its version, mutated in memory, and written back with a version
// check. When two drivers accept the same offer concurrently both pass the
// in-memory validation, but only the first write lands; the loser's write
// affects zero rows and surfaces as a Conflict, leaving the aggregate
// untouched. At most one driver is ever accepted per order.
type AcceptOfferCommandHandler struct {
	uowFactory   UoWFactory
	publisher    ports.EventPublisher
	anyCandidate bool
}

// NewAcceptOfferCommandHandler creates a handler for driver accepts.
// anyCandidate relaxes candidate matching so that any eligible driver may
// take a live offer, not only the one it was addressed to.
func NewAcceptOfferCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	anyCandidate bool,
) AcceptOfferCommandHandler {
	return AcceptOfferCommandHandler{
		uowFactory:   uowFactory,
		publisher:    publisher,
		anyCandidate: anyCandidate,
	}
}

// Handle processes the accept command and returns the order's resulting
// status. Both the assignment and the order are updated in one transaction;
// the transition event is published only after the commit.
func (h AcceptOfferCommandHandler) Handle(ctx context.Context, cmd AcceptOfferCommand) (order.Status, error) {
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

	driverAssignment, err := uow.AssignmentRepository().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return order.Unknown, err
	}

	if err = driverAssignment.Accept(cmd.DriverID(), time.Now().UTC(), h.anyCandidate); err != nil {
		return order.Unknown, err
	}

	if err = uow.AssignmentRepository().Update(ctx, driverAssignment); err != nil {
		return order.Unknown, err
	}

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return order.Unknown, err
	}

	oldStatus := aggregate.Status()
	if err = aggregate.AcceptDriver(); err != nil {
		return order.Unknown, err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	publishTransitions(ctx, h.publisher,
		transitionEvent(aggregate.ID(), oldStatus.String(), aggregate.Status().String(), ActorDriver))

	return aggregate.Status(), nil
}
