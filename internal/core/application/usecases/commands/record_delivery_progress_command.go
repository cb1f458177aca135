package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordDeliveryProgressCommandIsNotConstructed = errors.New(
	"RecordDeliveryProgressCommand must be created via NewRecordDeliveryProgressCommand constructor",
)

// DeliveryStage identifies one step of the driver-asserted delivery leg.
type DeliveryStage int

const (
	// DeliveryStageUnknown represents an invalid or undefined stage.
	DeliveryStageUnknown DeliveryStage = iota

	// DeliveryStagePickedUp means the driver collected the order.
	DeliveryStagePickedUp

	// DeliveryStageOutForDelivery means the driver is en route to the customer.
	DeliveryStageOutForDelivery

	// DeliveryStageDelivered means the order reached the customer.
	DeliveryStageDelivered
)

// DeliveryStageFromString parses a wire name ("picked_up", "out_for_delivery",
// "delivered") into a DeliveryStage.
func DeliveryStageFromString(s string) (DeliveryStage, error) {
	switch s {
	case "picked_up":
		return DeliveryStagePickedUp, nil
	case "out_for_delivery":
		return DeliveryStageOutForDelivery, nil
	case "delivered":
		return DeliveryStageDelivered, nil
	default:
		return DeliveryStageUnknown, errs.NewValueIsInvalidErrorWithCause("delivery stage",
			fmt.Errorf("%q is not a valid delivery stage", s))
	}
}

// String returns the wire name of the stage.
func (s DeliveryStage) String() string {
	switch s {
	case DeliveryStagePickedUp:
		return "picked_up"
	case DeliveryStageOutForDelivery:
		return "out_for_delivery"
	case DeliveryStageDelivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// Validate checks if the stage is a member of the closed set.
func (s DeliveryStage) Validate() error {
	switch s {
	case DeliveryStagePickedUp, DeliveryStageOutForDelivery, DeliveryStageDelivered:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("delivery stage",
			fmt.Errorf("%d is not a valid delivery stage", s))
	}
}

// RecordDeliveryProgressCommand represents the assigned driver advancing the
// delivery leg of an order by one stage.
type RecordDeliveryProgressCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID
	stage    DeliveryStage

	guard guard.ConstructorGuard
}

// NewRecordDeliveryProgressCommand creates a command for a driver reporting
// delivery progress.
func NewRecordDeliveryProgressCommand(orderID, driverID kernel.UUID, stage DeliveryStage) (RecordDeliveryProgressCommand, error) {
	command := RecordDeliveryProgressCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setDriverID(driverID),
		command.setStage(stage),
	); err != nil {
		return RecordDeliveryProgressCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordDeliveryProgressCommand) Validate() error {
	return c.guard.Validate(ErrRecordDeliveryProgressCommandIsNotConstructed)
}

// OrderID returns the order whose delivery is progressing.
func (c RecordDeliveryProgressCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the reporting driver.
func (c RecordDeliveryProgressCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Stage returns the delivery stage being recorded.
func (c RecordDeliveryProgressCommand) Stage() DeliveryStage {
	return c.stage
}

func (c *RecordDeliveryProgressCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RecordDeliveryProgressCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *RecordDeliveryProgressCommand) setStage(stage DeliveryStage) error {
	if err := stage.Validate(); err != nil {
		return err
	}

	c.stage = stage
	return nil
}
