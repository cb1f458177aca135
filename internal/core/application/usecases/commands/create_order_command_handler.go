package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for placing an order.
// Creates the order aggregate in "pending_driver_approval" status together
// with its driver assignment record, so the offer poller can start matching
// immediately.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// Requires a UoWFactory covering both order and assignment repositories.
func NewCreateOrderCommandHandler(uowFactory UoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order placement command.
// Builds the aggregate from the per-store specs, creates the unassigned
// driver assignment, and persists both within a single transaction.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	subOrders, err := buildSubOrders(cmd.SubOrders())
	if err != nil {
		return err
	}

	newOrder, err := order.NewOrder(cmd.OrderID(), cmd.OrderNumber(), cmd.CustomerID(),
		cmd.Street(), cmd.Location(), cmd.PaymentMethod(), subOrders)
	if err != nil {
		return err
	}

	newAssignment, err := assignment.NewAssignment(kernel.NewUUID(), newOrder.ID())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.AssignmentRepository().Add(ctx, newAssignment); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func buildSubOrders(specs []SubOrderSpec) ([]*order.StoreSubOrder, error) {
	subOrders := make([]*order.StoreSubOrder, 0, len(specs))
	for _, spec := range specs {
		items := make([]order.Item, 0, len(spec.Items))
		for _, itemSpec := range spec.Items {
			item, err := order.NewItem(kernel.NewUUID(), itemSpec.ProductID,
				itemSpec.Name, itemSpec.UnitPrice, itemSpec.Quantity)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}

		subOrder, err := order.NewStoreSubOrder(kernel.NewUUID(), spec.StoreID,
			spec.DeliveryFee, items)
		if err != nil {
			return nil, err
		}
		subOrders = append(subOrders, subOrder)
	}
	return subOrders, nil
}
