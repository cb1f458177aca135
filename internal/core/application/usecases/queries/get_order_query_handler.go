package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler assembles the composite order view straight from the
// database. Uses direct SQL queries for optimal read performance in the
// CQRS pattern; the domain aggregate is never materialized.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query and returns the order's composite view.
// Returns ObjectNotFound when no order exists with the given identifier.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response, err := h.fetchOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.SubOrders, err = h.fetchSubOrders(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.Assignment, err = h.fetchAssignment(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return response, nil
}

func (h GetOrderQueryHandler) fetchOrder(ctx context.Context, orderID kernel.UUID) (GetOrderQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			customer_id,
			street,
			latitude,
			longitude,
			payment_method,
			status,
			subtotal,
			delivery_fee,
			total_amount,
			created_at,
			delivered_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetOrderQueryResponse{}, err
		}
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order_id", orderID.String())
	}

	var response GetOrderQueryResponse
	var id, customerID uuid.UUID
	var paymentMethod, status int
	var deliveredAt *time.Time

	if err = rows.Scan(
		&id,
		&response.OrderNumber,
		&customerID,
		&response.Street,
		&response.Latitude,
		&response.Longitude,
		&paymentMethod,
		&status,
		&response.SubtotalCents,
		&response.DeliveryFeeCents,
		&response.TotalAmountCents,
		&response.CreatedAt,
		&deliveredAt,
	); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	response.PaymentMethod = order.PaymentMethod(paymentMethod).String()
	response.Status = order.Status(status).String()
	response.DeliveredAt = deliveredAt

	return response, rows.Err()
}

func (h GetOrderQueryHandler) fetchSubOrders(ctx context.Context, orderID kernel.UUID) ([]SubOrderResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			store_id,
			status,
			subtotal,
			delivery_fee,
			reject_reason
		FROM store_sub_orders
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subOrders := make([]SubOrderResponse, 0)
	for rows.Next() {
		var subOrder SubOrderResponse
		var id, storeID uuid.UUID
		var status int

		if err = rows.Scan(
			&id,
			&storeID,
			&status,
			&subOrder.SubtotalCents,
			&subOrder.DeliveryFeeCents,
			&subOrder.RejectReason,
		); err != nil {
			return nil, err
		}

		if subOrder.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if subOrder.StoreID, err = kernel.UUIDFromBytes(storeID[:]); err != nil {
			return nil, err
		}
		subOrder.Status = order.SubOrderStatus(status).String()

		if subOrder.Items, err = h.fetchItems(ctx, subOrder.ID); err != nil {
			return nil, err
		}
		subOrders = append(subOrders, subOrder)
	}

	return subOrders, rows.Err()
}

func (h GetOrderQueryHandler) fetchItems(ctx context.Context, subOrderID kernel.UUID) ([]OrderItemResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			name,
			unit_price,
			quantity,
			total_price
		FROM order_items
		WHERE sub_order_id = ?
		ORDER BY id
	`, subOrderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemResponse, 0)
	for rows.Next() {
		var item OrderItemResponse
		var productID uuid.UUID

		if err = rows.Scan(
			&productID,
			&item.Name,
			&item.UnitPriceCents,
			&item.Quantity,
			&item.TotalPriceCents,
		); err != nil {
			return nil, err
		}

		if item.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (h GetOrderQueryHandler) fetchAssignment(ctx context.Context, orderID kernel.UUID) (*AssignmentResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			driver_id,
			status,
			attempt_count,
			expires_at
		FROM driver_assignments
		WHERE order_id = ?
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var response AssignmentResponse
	var driverID *uuid.UUID
	var status int

	if err = rows.Scan(
		&driverID,
		&status,
		&response.AttemptCount,
		&response.ExpiresAt,
	); err != nil {
		return nil, err
	}

	if driverID != nil {
		id, idErr := kernel.UUIDFromBytes((*driverID)[:])
		if idErr != nil {
			return nil, idErr
		}
		response.DriverID = &id
	}
	response.Status = assignment.Status(status).String()

	return &response, rows.Err()
}
