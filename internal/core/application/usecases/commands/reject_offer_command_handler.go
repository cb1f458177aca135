package commands

import (
	"context"
	"time"
)

// RejectOfferCommandHandler records a driver declining an offer. The order
// itself does not change status: it stays pending until another driver
// accepts or the attempt ceiling cancels it. Re-offering is the poller's
// job, so a reject only parks the assignment for the next tick.
type RejectOfferCommandHandler struct {
	uowFactory AssignmentUoWFactory
}

// NewRejectOfferCommandHandler creates a handler for driver rejects.
func NewRejectOfferCommandHandler(uowFactory AssignmentUoWFactory) RejectOfferCommandHandler {
	return RejectOfferCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the reject command. The assignment is written back under
// optimistic concurrency, so a reject racing an accept cannot clobber it.
func (h RejectOfferCommandHandler) Handle(ctx context.Context, cmd RejectOfferCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverAssignment, err := uow.AssignmentRepository().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = driverAssignment.Reject(cmd.DriverID(), time.Now().UTC()); err != nil {
		return err
	}

	if err = uow.AssignmentRepository().Update(ctx, driverAssignment); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
