package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrApproveSubOrderCommandIsNotConstructed = errors.New(
	"ApproveSubOrderCommand must be created via NewApproveSubOrderCommand constructor",
)

// ApproveSubOrderCommand represents a store's final sign-off on its portion
// of an order. Only a prepared (ready) portion can be approved.
type ApproveSubOrderCommand struct { //nolint:recvcheck //using for validation
	subOrderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewApproveSubOrderCommand creates a command for a store approving its portion.
func NewApproveSubOrderCommand(subOrderID kernel.UUID) (ApproveSubOrderCommand, error) {
	command := ApproveSubOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setSubOrderID(subOrderID); err != nil {
		return ApproveSubOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ApproveSubOrderCommand) Validate() error {
	return c.guard.Validate(ErrApproveSubOrderCommandIsNotConstructed)
}

// SubOrderID returns the store sub-order being approved.
func (c ApproveSubOrderCommand) SubOrderID() kernel.UUID {
	return c.subOrderID
}

func (c *ApproveSubOrderCommand) setSubOrderID(subOrderID kernel.UUID) error {
	if err := subOrderID.Validate(); err != nil {
		return err
	}

	c.subOrderID = subOrderID
	return nil
}
