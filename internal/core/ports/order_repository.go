// Package ports defines repository and outbound interfaces for the
// fulfillment domain. These interfaces establish contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying orders with their
// complete state including store sub-orders and line items.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate under
	// optimistic concurrency: the write succeeds only when the stored
	// version still matches the version the aggregate was loaded with,
	// otherwise a Conflict error is returned.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier, with all
	// of its sub-orders and items. Returns ObjectNotFound when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetBySubOrder retrieves the order aggregate owning the given store
	// sub-order. Store-facing operations address sub-orders directly.
	GetBySubOrder(ctx context.Context, subOrderID kernel.UUID) (*order.Order, error)
}
