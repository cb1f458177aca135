package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrStartPreparingCommandIsNotConstructed = errors.New(
	"StartPreparingCommand must be created via NewStartPreparingCommand constructor",
)

// StartPreparingCommand represents a store accepting its portion of an
// order and beginning preparation.
type StartPreparingCommand struct { //nolint:recvcheck //using for validation
	subOrderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartPreparingCommand creates a command for a store starting preparation.
func NewStartPreparingCommand(subOrderID kernel.UUID) (StartPreparingCommand, error) {
	command := StartPreparingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setSubOrderID(subOrderID); err != nil {
		return StartPreparingCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c StartPreparingCommand) Validate() error {
	return c.guard.Validate(ErrStartPreparingCommandIsNotConstructed)
}

// SubOrderID returns the store sub-order being prepared.
func (c StartPreparingCommand) SubOrderID() kernel.UUID {
	return c.subOrderID
}

func (c *StartPreparingCommand) setSubOrderID(subOrderID kernel.UUID) error {
	if err := subOrderID.Validate(); err != nil {
		return err
	}

	c.subOrderID = subOrderID
	return nil
}
