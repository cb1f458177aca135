package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrDispatchOffersCommandIsNotConstructed = errors.New(
	"DispatchOffersCommand must be created via NewDispatchOffersCommand constructor",
)

// DispatchOffersCommand triggers one sweep of the offer poller: expiring
// overdue offers, dispatching next rounds and cancelling orders whose
// attempts are exhausted. Carries no parameters.
type DispatchOffersCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchOffersCommand creates a command for one poller sweep.
func NewDispatchOffersCommand() DispatchOffersCommand {
	return DispatchOffersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c DispatchOffersCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOffersCommandIsNotConstructed)
}
