package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrStreetIsRequired      = errors.New("street is required")
	ErrOrderNumberIsRequired = errors.New("order number is required")
	ErrSubOrdersAreRequired  = errors.New("at least one sub-order is required")
)

// ItemSpec describes one line item of a sub-order being placed.
type ItemSpec struct {
	ProductID kernel.UUID
	Name      string
	UnitPrice kernel.Money
	Quantity  int
}

// SubOrderSpec describes one store's portion of an order being placed.
type SubOrderSpec struct {
	StoreID     kernel.UUID
	DeliveryFee kernel.Money
	Items       []ItemSpec
}

// CreateOrderCommand represents a request to place a new multi-store order.
// Encapsulates the destination, payment method and the per-store portions
// with their line items.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "ORD-1042", customerID,
//	    "Calle Mayor 1", point, order.PaymentMethodCard, subOrders)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	orderNumber   string
	customerID    kernel.UUID
	street        string
	location      kernel.GeoPoint
	paymentMethod order.PaymentMethod
	subOrders     []SubOrderSpec

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates identifiers, destination, payment method and that at least one
// store portion with items is present. Returns an error if any validation fails.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	orderNumber string,
	customerID kernel.UUID,
	street string,
	location kernel.GeoPoint,
	paymentMethod order.PaymentMethod,
	subOrders []SubOrderSpec,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setOrderNumber(orderNumber),
		orderCommand.setCustomerID(customerID),
		orderCommand.setStreet(street),
		orderCommand.setLocation(location),
		orderCommand.setPaymentMethod(paymentMethod),
		orderCommand.setSubOrders(subOrders),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OrderNumber returns the human-readable order number.
func (c CreateOrderCommand) OrderNumber() string {
	return c.orderNumber
}

// CustomerID returns the ordering customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Street returns the delivery destination street address.
func (c CreateOrderCommand) Street() string {
	return c.street
}

// Location returns the delivery destination coordinates.
func (c CreateOrderCommand) Location() kernel.GeoPoint {
	return c.location
}

// PaymentMethod returns how the customer pays.
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// SubOrders returns the per-store portions of the order.
func (c CreateOrderCommand) SubOrders() []SubOrderSpec {
	return c.subOrders
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return ErrOrderNumberIsRequired
	}

	c.orderNumber = orderNumber
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setStreet(street string) error {
	if street == "" {
		return ErrStreetIsRequired
	}

	c.street = street
	return nil
}

func (c *CreateOrderCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(paymentMethod order.PaymentMethod) error {
	if err := paymentMethod.Validate(); err != nil {
		return err
	}

	c.paymentMethod = paymentMethod
	return nil
}

func (c *CreateOrderCommand) setSubOrders(subOrders []SubOrderSpec) error {
	if len(subOrders) == 0 {
		return ErrSubOrdersAreRequired
	}

	c.subOrders = subOrders
	return nil
}
