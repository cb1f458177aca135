package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created through
// the NewItem factory method.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a line-item snapshot within a store sub-order. Product name and
// unit price are captured at order time and never change afterwards, so the
// customer is charged what they saw at checkout even if the store later
// edits its catalogue.
type Item struct { //nolint:recvcheck //using for validation
	id         kernel.UUID
	productID  kernel.UUID
	name       string
	unitPrice  kernel.Money
	quantity   int
	totalPrice kernel.Money

	guard guard.ConstructorGuard
}

// NewItem creates a line-item snapshot. The total price is computed as
// unitPrice * quantity and fixed from then on.
func NewItem(id, productID kernel.UUID, name string, unitPrice kernel.Money, quantity int) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setIDs(id, productID),
		item.setName(name),
		item.setPricing(unitPrice, quantity),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// RestoreItem reconstructs a line item from persistence, including the
// persisted total so historical rows survive rounding-rule changes.
func RestoreItem(id, productID kernel.UUID, name string, unitPrice kernel.Money, quantity int,
	totalPrice kernel.Money) (Item, error) {
	item, err := NewItem(id, productID, name, unitPrice, quantity)
	if err != nil {
		return Item{}, err
	}
	item.totalPrice = totalPrice
	return item, nil
}

// Validate ensures the item was created through a constructor.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ID returns the item's unique identifier.
func (i Item) ID() kernel.UUID {
	return i.id
}

// ProductID returns the identifier of the catalogue product this item snapshots.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Name returns the product name captured at order time.
func (i Item) Name() string {
	return i.name
}

// UnitPrice returns the per-unit price captured at order time.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// TotalPrice returns the line total (unit price times quantity).
func (i Item) TotalPrice() kernel.Money {
	return i.totalPrice
}

func (i *Item) setIDs(id, productID kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := productID.Validate(); err != nil {
		return err
	}
	i.id = id
	i.productID = productID
	return nil
}

func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	i.name = name
	return nil
}

func (i *Item) setPricing(unitPrice kernel.Money, quantity int) error {
	if unitPrice.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%s is negative", unitPrice))
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.unitPrice = unitPrice
	i.quantity = quantity
	i.totalPrice = unitPrice.Multiply(quantity)
	return nil
}
