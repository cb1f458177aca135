package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetUndeliveredOrdersQueryIsNotConstructed = errors.New(
	"GetUndeliveredOrdersQuery must be created via NewGetUndeliveredOrdersQuery constructor",
)

// GetUndeliveredOrdersQuery retrieves all orders still in flight: anything
// not yet delivered and not cancelled. Used by operations dashboards.
type GetUndeliveredOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUndeliveredOrdersQuery creates a query to retrieve in-flight orders.
// This is a parameterless query.
func NewGetUndeliveredOrdersQuery() GetUndeliveredOrdersQuery {
	return GetUndeliveredOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetUndeliveredOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUndeliveredOrdersQueryIsNotConstructed)
}

// GetUndeliveredOrdersQueryResponse is one in-flight order row.
type GetUndeliveredOrdersQueryResponse struct {
	ID               kernel.UUID
	OrderNumber      string
	Status           string
	StoresCount      int
	TotalAmountCents int64
	CreatedAt        time.Time
}
