// Package assignment holds the driver assignment aggregate.
//
// One assignment exists per order. It walks the offer protocol
// (Unassigned -> Offered -> Accepted | Rejected | Expired, with rejected and
// expired rounds re-entering Offered for the next candidate) and carries the
// version used by the storage layer's compare-and-swap so that at most one
// driver ever ends up accepted.
package assignment
