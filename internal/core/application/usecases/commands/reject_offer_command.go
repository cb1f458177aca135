package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRejectOfferCommandIsNotConstructed = errors.New(
	"RejectOfferCommand must be created via NewRejectOfferCommand constructor",
)

// RejectOfferCommand represents a driver declining an order's delivery
// offer. The offer poller then dispatches the next round.
type RejectOfferCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRejectOfferCommand creates a command for a driver declining an offer.
func NewRejectOfferCommand(orderID, driverID kernel.UUID) (RejectOfferCommand, error) {
	command := RejectOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setDriverID(driverID),
	); err != nil {
		return RejectOfferCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectOfferCommand) Validate() error {
	return c.guard.Validate(ErrRejectOfferCommandIsNotConstructed)
}

// OrderID returns the order whose offer is being declined.
func (c RejectOfferCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the declining driver.
func (c RejectOfferCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *RejectOfferCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RejectOfferCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
