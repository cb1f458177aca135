package services

import (
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// OfferDispatcher is a domain service driving the competitive driver-offer
// protocol for an order's assignment.
//
// Business rules:
//   - Each offer round targets one candidate and is open for a fixed window
//   - A rejected or expired round is followed by a round to the next
//     candidate until the attempt ceiling is reached
//   - Once the ceiling is reached no further offers are made and the order
//     is cancelled by the caller
//
// The dispatcher is pure: candidate selection and persistence belong to the
// application layer, which feeds candidates in and writes the assignment
// back under optimistic concurrency.
type OfferDispatcher struct {
	offerWindow time.Duration
	maxAttempts int
}

// NewOfferDispatcher creates an OfferDispatcher with the given offer window
// and attempt ceiling. Both must be positive.
func NewOfferDispatcher(offerWindow time.Duration, maxAttempts int) (OfferDispatcher, error) {
	if offerWindow <= 0 {
		return OfferDispatcher{}, errs.NewValueIsInvalidError("offer window")
	}
	if maxAttempts <= 0 {
		return OfferDispatcher{}, errs.NewValueIsInvalidError("max attempts")
	}

	return OfferDispatcher{
		offerWindow: offerWindow,
		maxAttempts: maxAttempts,
	}, nil
}

// OfferWindow returns how long each offer round stays open.
func (d OfferDispatcher) OfferWindow() time.Duration {
	return d.offerWindow
}

// MaxAttempts returns the offer attempt ceiling per order.
func (d OfferDispatcher) MaxAttempts() int {
	return d.maxAttempts
}

// IsExhausted reports whether the assignment needs a new offer round but has
// used up all attempts. A live or accepted round is never exhausted.
func (d OfferDispatcher) IsExhausted(a *assignment.Assignment) bool {
	return a.Status().CanOffer() && a.AttemptCount() >= d.maxAttempts
}

// Offer starts the next offer round for the given candidate.
//
// Returns AttemptsExhausted when the ceiling has been reached, and the
// assignment's own transition errors when no round may be started (for
// example while another offer is live).
func (d OfferDispatcher) Offer(a *assignment.Assignment, candidate kernel.UUID, now time.Time) error {
	if err := a.Validate(); err != nil {
		return err
	}

	if d.IsExhausted(a) {
		return errs.NewAttemptsExhaustedError("assignment", a.ID().String(), a.AttemptCount())
	}

	return a.Offer(candidate, d.offerWindow, now)
}

// Expire closes an overdue offer round so the next one can be dispatched.
func (d OfferDispatcher) Expire(a *assignment.Assignment, now time.Time) error {
	if err := a.Validate(); err != nil {
		return err
	}

	return a.Expire(now)
}
