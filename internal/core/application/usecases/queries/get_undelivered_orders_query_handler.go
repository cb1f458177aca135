package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUndeliveredOrdersQueryHandler retrieves in-flight orders from the
// database, excluding delivered and cancelled ones.
type GetUndeliveredOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUndeliveredOrdersQueryHandler creates a handler for in-flight order
// queries. Requires a GORM database connection for query execution.
func NewGetUndeliveredOrdersQueryHandler(db *gorm.DB) GetUndeliveredOrdersQueryHandler {
	return GetUndeliveredOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all undelivered orders.
// Results are sorted oldest first so the longest-waiting orders surface.
func (h GetUndeliveredOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUndeliveredOrdersQuery,
) ([]GetUndeliveredOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUndeliveredOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.order_number,
			o.status,
			o.total_amount,
			o.created_at,
			(SELECT COUNT(*) FROM store_sub_orders s WHERE s.order_id = o.id) AS stores_count
		FROM orders o
		WHERE o.status NOT IN (?, ?)
		ORDER BY o.created_at
	`, int(order.Delivered), int(order.Cancelled)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetUndeliveredOrdersQueryResponse
		var id uuid.UUID
		var status int

		if err = rows.Scan(
			&id,
			&orderResp.OrderNumber,
			&status,
			&orderResp.TotalAmountCents,
			&orderResp.CreatedAt,
			&orderResp.StoresCount,
		); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID
		orderResp.Status = order.Status(status).String()
		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
