package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// RecordDeliveryProgressCommandHandler advances the driver-asserted leg of
// an order: picked up, out for delivery, delivered. Only the driver who
// accepted the order's offer may report progress; anyone else receives a
// Conflict error.
type RecordDeliveryProgressCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewRecordDeliveryProgressCommandHandler creates a handler for delivery
// progress reports.
func NewRecordDeliveryProgressCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) RecordDeliveryProgressCommandHandler {
	return RecordDeliveryProgressCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the progress report and returns the order's resulting status.
func (h RecordDeliveryProgressCommandHandler) Handle(ctx context.Context, cmd RecordDeliveryProgressCommand) (order.Status, error) {
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

	if !driverAssignment.IsAccepted() ||
		driverAssignment.DriverID() == nil ||
		!driverAssignment.DriverID().IsEqual(cmd.DriverID()) {
		return order.Unknown, errs.NewConflictError("order driver", cmd.OrderID().String())
	}

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return order.Unknown, err
	}

	oldStatus := aggregate.Status()

	switch cmd.Stage() {
	case DeliveryStagePickedUp:
		err = aggregate.MarkPickedUp()
	case DeliveryStageOutForDelivery:
		err = aggregate.MarkOutForDelivery()
	case DeliveryStageDelivered:
		err = aggregate.MarkDelivered(time.Now().UTC())
	default:
		err = errs.NewValueIsInvalidError("delivery stage")
	}
	if err != nil {
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
