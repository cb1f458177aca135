package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for driver
// assignments. One assignment row exists per order.
//
// Update is the linchpin of the competitive accept: it writes with a
// version check (WHERE id = ? AND version = ?) so that when two drivers
// race on the same offer exactly one write lands and every other caller
// receives a Conflict error.
type AssignmentRepository interface {
	// Add persists a new assignment to storage.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Update persists changes to an assignment under optimistic
	// concurrency. Returns a Conflict error when the stored version no
	// longer matches the version the assignment was loaded with.
	Update(ctx context.Context, aggregate *assignment.Assignment) error

	// GetByOrder retrieves the assignment for the given order.
	// Returns ObjectNotFound when absent.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Assignment, error)

	// GetOfferable retrieves assignments that need poller attention at the
	// given instant: unassigned rows awaiting their first offer, rejected
	// or expired rows awaiting a re-offer, and offered rows whose window
	// has already closed. Assignments whose order has reached a terminal
	// status are excluded.
	GetOfferable(ctx context.Context, now time.Time) ([]*assignment.Assignment, error)
}
