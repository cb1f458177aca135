// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the composite view of one order: the aggregate,
// its store sub-orders with line items, and the driver assignment state.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order's composite view.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	query := GetOrderQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	query.orderID = orderID

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order being queried.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderItemResponse is a line item in the order read model.
type OrderItemResponse struct {
	ProductID       kernel.UUID
	Name            string
	UnitPriceCents  int64
	Quantity        int
	TotalPriceCents int64
}

// SubOrderResponse is one store's portion in the order read model.
type SubOrderResponse struct {
	ID               kernel.UUID
	StoreID          kernel.UUID
	Status           string
	SubtotalCents    int64
	DeliveryFeeCents int64
	RejectReason     string
	Items            []OrderItemResponse
}

// AssignmentResponse is the driver assignment state in the order read model.
type AssignmentResponse struct {
	DriverID     *kernel.UUID
	Status       string
	AttemptCount int
	ExpiresAt    *time.Time
}

// GetOrderQueryResponse is the composite read model of one order.
type GetOrderQueryResponse struct {
	ID               kernel.UUID
	OrderNumber      string
	CustomerID       kernel.UUID
	Street           string
	Latitude         float64
	Longitude        float64
	PaymentMethod    string
	Status           string
	SubtotalCents    int64
	DeliveryFeeCents int64
	TotalAmountCents int64
	CreatedAt        time.Time
	DeliveredAt      *time.Time
	Assignment       *AssignmentResponse
	SubOrders        []SubOrderResponse
}
