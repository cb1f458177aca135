// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. The order aggregate spans three tables: orders,
// store_sub_orders and order_items. Mapping reconstructs the full aggregate
// via the domain Restore constructors so that loaded state always passes the
// same invariants as freshly built state.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database row for the order aggregate root.
// Monetary amounts are stored in cents, statuses as integers, and the
// version column backs the optimistic concurrency check on Update.
type OrderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber    string    `gorm:"uniqueIndex"`
	CustomerID     uuid.UUID `gorm:"type:uuid;index"`
	Street         string
	Latitude       float64
	Longitude      float64
	PaymentMethod  int
	Status         int `gorm:"index"`
	Subtotal       int64
	DeliveryFee    int64
	TotalAmount    int64
	DriverAccepted bool
	Version        int
	CreatedAt      time.Time
	DeliveredAt    *time.Time
}

// TableName specifies the database table name for order rows.
func (OrderDTO) TableName() string {
	return "orders"
}

// SubOrderDTO represents the database row for a store's portion of an order.
type SubOrderDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;index"`
	StoreID      uuid.UUID `gorm:"type:uuid;index"`
	Status       int
	Subtotal     int64
	DeliveryFee  int64
	RejectReason string
	AcceptedAt   *time.Time
	PreparedAt   *time.Time
	ApprovedAt   *time.Time
	RejectedAt   *time.Time
}

// TableName specifies the database table name for sub-order rows.
func (SubOrderDTO) TableName() string {
	return "store_sub_orders"
}

// ItemDTO represents a line item row. Items are immutable after checkout;
// the total is persisted rather than recomputed so historical rows stay
// exactly as charged.
type ItemDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubOrderID uuid.UUID `gorm:"type:uuid;index"`
	ProductID  uuid.UUID `gorm:"type:uuid"`
	Name       string
	UnitPrice  int64
	Quantity   int
	TotalPrice int64
}

// TableName specifies the database table name for line item rows.
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain flattens an order aggregate into its table rows.
func fromDomain(aggregate *order.Order) (OrderDTO, []SubOrderDTO, []ItemDTO) {
	dto := OrderDTO{
		ID:             aggregate.ID().Bytes(),
		OrderNumber:    aggregate.OrderNumber(),
		CustomerID:     aggregate.CustomerID().Bytes(),
		Street:         aggregate.Street(),
		Latitude:       aggregate.Location().Latitude(),
		Longitude:      aggregate.Location().Longitude(),
		PaymentMethod:  int(aggregate.PaymentMethod()),
		Status:         int(aggregate.Status()),
		Subtotal:       aggregate.Subtotal().Cents(),
		DeliveryFee:    aggregate.DeliveryFee().Cents(),
		TotalAmount:    aggregate.TotalAmount().Cents(),
		DriverAccepted: aggregate.DriverAccepted(),
		Version:        aggregate.Version(),
		CreatedAt:      aggregate.CreatedAt(),
		DeliveredAt:    aggregate.DeliveredAt(),
	}

	subOrders := make([]SubOrderDTO, 0, len(aggregate.SubOrders()))
	items := make([]ItemDTO, 0)
	for _, sub := range aggregate.SubOrders() {
		subOrders = append(subOrders, SubOrderDTO{
			ID:           sub.ID().Bytes(),
			OrderID:      aggregate.ID().Bytes(),
			StoreID:      sub.StoreID().Bytes(),
			Status:       int(sub.Status()),
			Subtotal:     sub.Subtotal().Cents(),
			DeliveryFee:  sub.DeliveryFee().Cents(),
			RejectReason: sub.RejectReason(),
			AcceptedAt:   sub.AcceptedAt(),
			PreparedAt:   sub.PreparedAt(),
			ApprovedAt:   sub.ApprovedAt(),
			RejectedAt:   sub.RejectedAt(),
		})

		for _, item := range sub.Items() {
			items = append(items, ItemDTO{
				ID:         item.ID().Bytes(),
				SubOrderID: sub.ID().Bytes(),
				ProductID:  item.ProductID().Bytes(),
				Name:       item.Name(),
				UnitPrice:  item.UnitPrice().Cents(),
				Quantity:   item.Quantity(),
				TotalPrice: item.TotalPrice().Cents(),
			})
		}
	}

	return dto, subOrders, items
}

// toDomain reconstructs an order aggregate from its table rows. Item rows
// are grouped by their owning sub-order before restoration.
func toDomain(dto OrderDTO, subDTOs []SubOrderDTO, itemDTOs []ItemDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	itemsBySubOrder := make(map[uuid.UUID][]order.Item, len(subDTOs))
	for _, itemDTO := range itemDTOs {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		itemsBySubOrder[itemDTO.SubOrderID] = append(itemsBySubOrder[itemDTO.SubOrderID], item)
	}

	subOrders := make([]*order.StoreSubOrder, 0, len(subDTOs))
	for _, subDTO := range subDTOs {
		sub, subErr := subOrderToDomain(subDTO, itemsBySubOrder[subDTO.ID])
		if subErr != nil {
			return nil, subErr
		}
		subOrders = append(subOrders, sub)
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		customerID,
		dto.Street,
		location,
		order.PaymentMethod(dto.PaymentMethod),
		order.Status(dto.Status),
		dto.DriverAccepted,
		subOrders,
		dto.Version,
		dto.CreatedAt,
		dto.DeliveredAt,
	)
}

func subOrderToDomain(dto SubOrderDTO, items []order.Item) (*order.StoreSubOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	storeID, err := kernel.UUIDFromBytes(dto.StoreID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreStoreSubOrder(
		id,
		storeID,
		order.SubOrderStatus(dto.Status),
		kernel.NewMoney(dto.Subtotal),
		kernel.NewMoney(dto.DeliveryFee),
		items,
		dto.RejectReason,
		dto.AcceptedAt,
		dto.PreparedAt,
		dto.ApprovedAt,
		dto.RejectedAt,
	)
}

func itemToDomain(dto ItemDTO) (order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Item{}, err
	}

	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}

	return order.RestoreItem(
		id,
		productID,
		dto.Name,
		kernel.NewMoney(dto.UnitPrice),
		dto.Quantity,
		kernel.NewMoney(dto.TotalPrice),
	)
}
