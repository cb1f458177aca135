package assignment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the state of the driver-matching protocol for one order.
//
//	Unassigned -> Offered -> Accepted
//	                  |
//	                  +----> Rejected -+
//	                  +----> Expired  -+-> Offered (next candidate)
//
// Accepted is terminal for the protocol. Rejected and Expired loop back to
// Offered until the attempt ceiling is reached.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// Unassigned means no offer has been made yet.
	Unassigned

	// Offered means a candidate driver holds a live, time-bounded offer.
	Offered

	// Accepted means a driver accepted the offer. At most one assignment per
	// order is ever Accepted; this is the protocol's core guarantee.
	Accepted

	// Rejected means the candidate declined the offer.
	Rejected

	// Expired means the offer window elapsed without a response.
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Unassigned:    "unassigned",
		Offered:       "offered",
		Accepted:      "accepted",
		Rejected:      "rejected",
		Expired:       "expired",
	}
}

// Validate checks if the Status value is a member of the closed status set.
func (s Status) Validate() error {
	switch s {
	case Unassigned, Offered, Accepted, Rejected, Expired:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("assignment status is invalid",
			fmt.Errorf("%d is not a valid assignment status", s))
	}
}

// String returns the wire name of the status, e.g. "offered".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// CanOffer reports whether a (re-)offer may be made from this status.
func (s Status) CanOffer() bool {
	return s == Unassigned || s == Rejected || s == Expired
}
