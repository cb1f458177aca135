package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// SubOrderStatus represents the preparation lifecycle of one store's portion
// of an order. Each sub-order advances independently of its siblings:
//
//	PendingStoreApproval -> Preparing -> Ready -> Approved
//
// Rejected is reachable from PendingStoreApproval and Ready only. Approved
// and Rejected are terminal for the sub-order.
type SubOrderStatus int

const (
	// SubOrderUnknown represents an invalid or undefined sub-order status.
	SubOrderUnknown SubOrderStatus = iota

	// SubOrderPendingApproval is the initial status: the store has not yet
	// started preparing its portion.
	SubOrderPendingApproval

	// SubOrderPreparing indicates the store accepted the portion and is
	// preparing it.
	SubOrderPreparing

	// SubOrderReady indicates the portion is prepared and awaiting the
	// store's final approval and driver pickup.
	SubOrderReady

	// SubOrderApproved indicates the store signed the portion off.
	// Terminal success for the sub-order.
	SubOrderApproved

	// SubOrderRejected indicates the store refused the portion. The portion
	// is excluded from the order's totals and aggregate derivation. Terminal.
	SubOrderRejected
)

func getSubOrderStatusStrings() map[SubOrderStatus]string {
	return map[SubOrderStatus]string{
		SubOrderUnknown:         "unknown",
		SubOrderPendingApproval: "pending_store_approval",
		SubOrderPreparing:       "store_preparing",
		SubOrderReady:           "ready_for_delivery",
		SubOrderApproved:        "store_approved",
		SubOrderRejected:        "store_rejected",
	}
}

// Validate checks if the SubOrderStatus value is a member of the closed set.
func (s SubOrderStatus) Validate() error {
	switch s {
	case SubOrderPendingApproval, SubOrderPreparing, SubOrderReady, SubOrderApproved, SubOrderRejected:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("sub-order status is invalid",
			fmt.Errorf("%d is not a valid sub-order status", s))
	}
}

// String returns the wire name of the status, e.g. "store_preparing".
func (s SubOrderStatus) String() string {
	if str, ok := getSubOrderStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsRejected reports whether the sub-order was refused by its store.
func (s SubOrderStatus) IsRejected() bool {
	return s == SubOrderRejected
}

// StartPreparing transitions the status to SubOrderPreparing.
// Legal only from SubOrderPendingApproval.
func (s SubOrderStatus) StartPreparing() (SubOrderStatus, error) {
	if s != SubOrderPendingApproval {
		return 0, errs.NewInvalidTransitionError("store sub-order", s.String(), SubOrderPreparing.String())
	}
	return SubOrderPreparing, nil
}

// FinishPreparing transitions the status to SubOrderReady.
// Legal only from SubOrderPreparing.
func (s SubOrderStatus) FinishPreparing() (SubOrderStatus, error) {
	if s != SubOrderPreparing {
		return 0, errs.NewInvalidTransitionError("store sub-order", s.String(), SubOrderReady.String())
	}
	return SubOrderReady, nil
}

// Approve transitions the status to SubOrderApproved.
// Legal only from SubOrderReady: a store cannot approve a portion it has
// not finished preparing.
func (s SubOrderStatus) Approve() (SubOrderStatus, error) {
	if s != SubOrderReady {
		return 0, errs.NewInvalidTransitionError("store sub-order", s.String(), SubOrderApproved.String())
	}
	return SubOrderApproved, nil
}

// Reject transitions the status to SubOrderRejected.
// Legal from SubOrderPendingApproval or SubOrderReady. An approved portion
// can no longer be rejected.
func (s SubOrderStatus) Reject() (SubOrderStatus, error) {
	if s != SubOrderPendingApproval && s != SubOrderReady {
		return 0, errs.NewInvalidTransitionError("store sub-order", s.String(), SubOrderRejected.String())
	}
	return SubOrderRejected, nil
}
