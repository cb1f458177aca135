package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// Actor names recorded on transition events.
const (
	ActorDriver   = "driver"
	ActorStore    = "store"
	ActorCustomer = "customer"
	ActorSystem   = "system"
)

// transitionEvent builds an aggregate-level transition event.
func transitionEvent(orderID kernel.UUID, oldStatus, newStatus, actor string) ports.TransitionEvent {
	return ports.TransitionEvent{
		OrderID:    orderID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}

// subOrderTransitionEvent builds a sub-order-level transition event.
func subOrderTransitionEvent(orderID, subOrderID kernel.UUID, oldStatus, newStatus, actor string) ports.TransitionEvent {
	return ports.TransitionEvent{
		OrderID:    orderID,
		SubOrderID: &subOrderID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}

// publishTransitions delivers events after the owning transaction committed.
// Best-effort: a publish failure is logged, never surfaced to the caller.
func publishTransitions(ctx context.Context, publisher ports.EventPublisher, events ...ports.TransitionEvent) {
	if publisher == nil {
		return
	}
	for _, event := range events {
		if err := publisher.Publish(ctx, event); err != nil {
			slog.Warn("failed to publish transition event",
				"order_id", event.OrderID.String(),
				"new_status", event.NewStatus,
				"error", err)
		}
	}
}
