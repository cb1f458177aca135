package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the aggregate lifecycle state of an order.
//
// The aggregate status is never set independently: it is derived from the
// driver assignment outcome and the statuses of the order's store sub-orders
// (see DeriveStatus), except for the driver-asserted delivery leg
// (DriverPickedUp, OutForDelivery, Delivered) which only the assigned driver
// advances, and Cancelled which is terminal.
//
// Main path:
//
//	PendingDriverApproval -> DriverAccepted -> PendingStoreApproval
//	    -> StorePreparing -> ReadyForDelivery
//	    -> DriverPickedUp -> OutForDelivery -> Delivered
//
// Cancelled is reachable from every non-terminal status, either through an
// explicit cancel or when every sub-order has been rejected.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingDriverApproval is the initial status: the order is waiting for
	// a driver to accept its delivery offer.
	PendingDriverApproval

	// DriverAccepted is the transitional status recorded the moment a driver
	// wins the offer, before the store workflow is engaged. Derivation moves
	// the order straight on to PendingStoreApproval.
	DriverAccepted

	// PendingStoreApproval indicates a driver is matched and every surviving
	// sub-order is still waiting for its store to start preparing.
	PendingStoreApproval

	// StorePreparing indicates at least one surviving sub-order is being prepared.
	StorePreparing

	// ReadyForDelivery indicates every surviving sub-order is prepared or
	// approved and the driver may collect the order.
	ReadyForDelivery

	// DriverPickedUp indicates the driver has collected the order.
	DriverPickedUp

	// OutForDelivery indicates the driver is en route to the customer.
	OutForDelivery

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was cancelled or every sub-order was
	// rejected. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:               "unknown",
		PendingDriverApproval: "pending_driver_approval",
		DriverAccepted:        "driver_accepted",
		PendingStoreApproval:  "pending_store_approval",
		StorePreparing:        "store_preparing",
		ReadyForDelivery:      "ready_for_delivery",
		DriverPickedUp:        "driver_picked_up",
		OutForDelivery:        "out_for_delivery",
		Delivered:             "delivered",
		Cancelled:             "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		PendingDriverApproval: "pending_driver_approval",
		DriverAccepted:        "driver_accepted",
		PendingStoreApproval:  "pending_store_approval",
		StorePreparing:        "store_preparing",
		ReadyForDelivery:      "ready_for_delivery",
		DriverPickedUp:        "driver_picked_up",
		OutForDelivery:        "out_for_delivery",
		Delivered:             "delivered",
		Cancelled:             "cancelled",
	}
}

// validNextStatuses is the authoritative transition table for the aggregate.
// Every mutation on the Order passes through it, so an unreachable state
// cannot be produced by any command sequence.
var validNextStatuses = map[Status][]Status{
	PendingDriverApproval: {DriverAccepted, Cancelled},
	DriverAccepted:        {PendingStoreApproval, Cancelled},
	PendingStoreApproval:  {StorePreparing, ReadyForDelivery, Cancelled},
	StorePreparing:        {PendingStoreApproval, ReadyForDelivery, Cancelled},
	ReadyForDelivery:      {DriverPickedUp, Cancelled},
	DriverPickedUp:        {OutForDelivery, Cancelled},
	OutForDelivery:        {Delivered, Cancelled},
	Delivered:             {},
	Cancelled:             {},
}

// Validate checks if the Status value is a member of the closed status set.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "pending_driver_approval".
// Implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether next is a legal successor of s
// according to the transition table.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validNextStatuses[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DeriveStatus computes the aggregate status as a pure function of the
// driver-assignment outcome and the current sub-order statuses. It is
// deterministic: the same inputs always produce the same status.
//
// Rules, in order:
//   - every sub-order rejected: Cancelled
//   - no accepted driver yet: PendingDriverApproval
//   - any surviving sub-order preparing: StorePreparing
//   - every surviving sub-order ready or approved: ReadyForDelivery
//   - otherwise (some store has not engaged yet): PendingStoreApproval
//
// Rejected sub-orders are excluded from derivation entirely; the order
// proceeds on the survivors. The driver-asserted delivery leg is not
// derived here - the aggregate keeps those statuses sticky.
func DeriveStatus(driverAccepted bool, subStatuses []SubOrderStatus) Status {
	surviving := 0
	preparing := 0
	readyOrApproved := 0
	for _, sub := range subStatuses {
		if sub == SubOrderRejected {
			continue
		}
		surviving++
		switch sub {
		case SubOrderPreparing:
			preparing++
		case SubOrderReady, SubOrderApproved:
			readyOrApproved++
		}
	}

	if len(subStatuses) > 0 && surviving == 0 {
		return Cancelled
	}

	if !driverAccepted {
		return PendingDriverApproval
	}

	if preparing > 0 {
		return StorePreparing
	}

	if surviving > 0 && readyOrApproved == surviving {
		return ReadyForDelivery
	}

	return PendingStoreApproval
}
