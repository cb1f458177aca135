package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// TransitionEvent describes one committed status change of an order or of a
// store sub-order. SubOrderID is nil for aggregate-level transitions.
type TransitionEvent struct {
	OrderID    kernel.UUID
	SubOrderID *kernel.UUID
	OldStatus  string
	NewStatus  string
	Actor      string
	OccurredAt time.Time
}

// EventPublisher publishes transition events to interested consumers after
// the owning transaction has committed. Publishing is best-effort: a
// delivery failure is logged and never fails the command that produced the
// event.
type EventPublisher interface {
	Publish(ctx context.Context, event TransitionEvent) error
}
