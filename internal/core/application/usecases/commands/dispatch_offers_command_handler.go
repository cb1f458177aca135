package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// DispatchOffersCommandHandler runs the offer protocol forward for every
// assignment that needs attention: first offers for new orders, expiry of
// overdue offers, re-offers after a reject or expiry, and cancellation once
// the attempt ceiling is reached.
//
// This poller is the only part of the system that retries on behalf of
// anyone; driver and store requests always settle in a single attempt.
//
// Each assignment is processed in its own transaction. A Conflict during
// the sweep means a driver responded concurrently and is not an error: the
// row is simply skipped and re-examined on the next tick.
type DispatchOffersCommandHandler struct {
	uowFactory    UoWFactory
	candidatePool ports.CandidatePool
	dispatcher    services.OfferDispatcher
	publisher     ports.EventPublisher
	logger        *slog.Logger
}

// NewDispatchOffersCommandHandler creates the poller's command handler.
func NewDispatchOffersCommandHandler(
	uowFactory UoWFactory,
	candidatePool ports.CandidatePool,
	dispatcher services.OfferDispatcher,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) DispatchOffersCommandHandler {
	return DispatchOffersCommandHandler{
		uowFactory:    uowFactory,
		candidatePool: candidatePool,
		dispatcher:    dispatcher,
		publisher:     publisher,
		logger:        logger,
	}
}

// Handle performs one sweep over the offerable assignments.
// Individual failures are logged and do not abort the sweep.
func (h DispatchOffersCommandHandler) Handle(ctx context.Context, cmd DispatchOffersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	assignments, err := h.listOfferable(ctx, now)
	if err != nil {
		return err
	}

	for _, driverAssignment := range assignments {
		if err = h.process(ctx, driverAssignment, now); err != nil {
			if errors.Is(err, errs.ErrConflict) {
				continue
			}
			h.logger.Warn("offer sweep failed for assignment",
				"assignment_id", driverAssignment.ID().String(),
				"order_id", driverAssignment.OrderID().String(),
				"error", err)
		}
	}

	return nil
}

func (h DispatchOffersCommandHandler) listOfferable(ctx context.Context, now time.Time) ([]*assignment.Assignment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignments, err := uow.AssignmentRepository().GetOfferable(ctx, now)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return assignments, nil
}

// process moves a single assignment forward. All state changes for one
// assignment are flushed in a single update so the version check covers
// the whole sweep; a concurrent driver response makes that update fail
// with a conflict and the sweep simply moves on.
func (h DispatchOffersCommandHandler) process(ctx context.Context, driverAssignment *assignment.Assignment, now time.Time) error {
	expired := false
	if driverAssignment.HasExpired(now) {
		if err := h.dispatcher.Expire(driverAssignment, now); err != nil {
			return err
		}
		expired = true
	}

	if !driverAssignment.Status().CanOffer() {
		return nil
	}

	if h.dispatcher.IsExhausted(driverAssignment) {
		return h.cancelOrder(ctx, driverAssignment, expired)
	}

	candidate, err := h.candidatePool.Next(ctx, driverAssignment.OrderID(), driverAssignment.AttemptCount()+1)
	if errors.Is(err, ports.ErrNoCandidates) {
		// Nobody available right now; the next tick retries.
		if expired {
			return h.saveAssignment(ctx, driverAssignment)
		}
		return nil
	}
	if err != nil {
		return err
	}

	if err = h.dispatcher.Offer(driverAssignment, candidate, now); err != nil {
		return err
	}

	return h.saveAssignment(ctx, driverAssignment)
}

func (h DispatchOffersCommandHandler) saveAssignment(ctx context.Context, driverAssignment *assignment.Assignment) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.AssignmentRepository().Update(ctx, driverAssignment); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// cancelOrder terminates an order that ran out of offer attempts.
func (h DispatchOffersCommandHandler) cancelOrder(ctx context.Context, driverAssignment *assignment.Assignment, saveAssignment bool) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, driverAssignment.OrderID())
	if err != nil {
		return err
	}

	oldStatus := aggregate.Status()
	changed, err := aggregate.Cancel()
	if err != nil {
		return err
	}

	if saveAssignment {
		if err = uow.AssignmentRepository().Update(ctx, driverAssignment); err != nil {
			return err
		}
	}

	if !changed {
		return uow.Commit(ctx)
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.Warn("order cancelled after exhausting offer attempts",
		"order_id", aggregate.ID().String(),
		"attempts", driverAssignment.AttemptCount(),
		"error", errs.NewAttemptsExhaustedError("assignment",
			driverAssignment.ID().String(), driverAssignment.AttemptCount()))

	publishTransitions(ctx, h.publisher,
		transitionEvent(aggregate.ID(), oldStatus.String(), aggregate.Status().String(), ActorSystem))

	return nil
}
