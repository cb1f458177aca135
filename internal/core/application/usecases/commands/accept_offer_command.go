package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAcceptOfferCommandIsNotConstructed = errors.New(
	"AcceptOfferCommand must be created via NewAcceptOfferCommand constructor",
)

// AcceptOfferCommand represents a driver's attempt to win an order's
// delivery offer. When several drivers race on the same offer, exactly one
// of these commands succeeds.
type AcceptOfferCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptOfferCommand creates a command for a driver accepting an offer.
func NewAcceptOfferCommand(orderID, driverID kernel.UUID) (AcceptOfferCommand, error) {
	command := AcceptOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setDriverID(driverID),
	); err != nil {
		return AcceptOfferCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOfferCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOfferCommandIsNotConstructed)
}

// OrderID returns the order whose offer is being accepted.
func (c AcceptOfferCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the accepting driver.
func (c AcceptOfferCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *AcceptOfferCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AcceptOfferCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
