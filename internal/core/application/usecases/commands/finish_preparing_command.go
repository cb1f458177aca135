package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrFinishPreparingCommandIsNotConstructed = errors.New(
	"FinishPreparingCommand must be created via NewFinishPreparingCommand constructor",
)

// FinishPreparingCommand represents a store marking its portion of an order
// as prepared and ready for pickup.
type FinishPreparingCommand struct { //nolint:recvcheck //using for validation
	subOrderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewFinishPreparingCommand creates a command for a store finishing preparation.
func NewFinishPreparingCommand(subOrderID kernel.UUID) (FinishPreparingCommand, error) {
	command := FinishPreparingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setSubOrderID(subOrderID); err != nil {
		return FinishPreparingCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c FinishPreparingCommand) Validate() error {
	return c.guard.Validate(ErrFinishPreparingCommandIsNotConstructed)
}

// SubOrderID returns the store sub-order that is ready.
func (c FinishPreparingCommand) SubOrderID() kernel.UUID {
	return c.subOrderID
}

func (c *FinishPreparingCommand) setSubOrderID(subOrderID kernel.UUID) error {
	if err := subOrderID.Validate(); err != nil {
		return err
	}

	c.subOrderID = subOrderID
	return nil
}
