package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRejectSubOrderCommandIsNotConstructed = errors.New(
		"RejectSubOrderCommand must be created via NewRejectSubOrderCommand constructor",
	)
	ErrRejectReasonIsRequired = errors.New("reject reason is required")
)

// RejectSubOrderCommand represents a store refusing its portion of an
// order, for example because an item is out of stock. The order's totals
// are recomputed over the surviving portions.
type RejectSubOrderCommand struct { //nolint:recvcheck //using for validation
	subOrderID kernel.UUID
	reason     string

	guard guard.ConstructorGuard
}

// NewRejectSubOrderCommand creates a command for a store rejecting its
// portion. A non-empty reason is required.
func NewRejectSubOrderCommand(subOrderID kernel.UUID, reason string) (RejectSubOrderCommand, error) {
	command := RejectSubOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setSubOrderID(subOrderID),
		command.setReason(reason),
	); err != nil {
		return RejectSubOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectSubOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectSubOrderCommandIsNotConstructed)
}

// SubOrderID returns the store sub-order being rejected.
func (c RejectSubOrderCommand) SubOrderID() kernel.UUID {
	return c.subOrderID
}

// Reason returns why the store refused the portion.
func (c RejectSubOrderCommand) Reason() string {
	return c.reason
}

func (c *RejectSubOrderCommand) setSubOrderID(subOrderID kernel.UUID) error {
	if err := subOrderID.Validate(); err != nil {
		return err
	}

	c.subOrderID = subOrderID
	return nil
}

func (c *RejectSubOrderCommand) setReason(reason string) error {
	if reason == "" {
		return ErrRejectReasonIsRequired
	}

	c.reason = reason
	return nil
}
