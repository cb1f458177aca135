package assignment

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrAssignmentIsNotConstructed is returned when an Assignment instance was
// not created through NewAssignment or RestoreAssignment.
var ErrAssignmentIsNotConstructed = errors.New(
	"Assignment must be created via NewAssignment or RestoreAssignment")

// Assignment tracks the competitive driver-offer protocol for one order.
// A single row exists per order and is mutated across offer rounds; the
// version field backs the storage layer's compare-and-swap, which is what
// makes concurrent accepts race-free: the first writer wins, every other
// caller observes a Conflict and no partial state is ever visible.
//
// The in-memory methods validate protocol transitions; durable atomicity is
// provided by the repository's version-checked update.
type Assignment struct {
	id       kernel.UUID
	orderID  kernel.UUID
	driverID *kernel.UUID

	status       Status
	offeredAt    *time.Time
	respondedAt  *time.Time
	expiresAt    *time.Time
	attemptCount int

	version int

	isConstructed bool
}

// NewAssignment creates the assignment record for a freshly placed order,
// in Unassigned status with no candidate.
func NewAssignment(id, orderID kernel.UUID) (*Assignment, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	return &Assignment{
		id:            id,
		orderID:       orderID,
		status:        Unassigned,
		version:       1,
		isConstructed: true,
	}, nil
}

// RestoreAssignment reconstructs an assignment from persistence.
func RestoreAssignment(
	id, orderID kernel.UUID,
	driverID *kernel.UUID,
	status Status,
	offeredAt, respondedAt, expiresAt *time.Time,
	attemptCount int,
	version int,
) (*Assignment, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Assignment{
		id:            id,
		orderID:       orderID,
		driverID:      driverID,
		status:        status,
		offeredAt:     offeredAt,
		respondedAt:   respondedAt,
		expiresAt:     expiresAt,
		attemptCount:  attemptCount,
		version:       version,
		isConstructed: true,
	}, nil
}

// Validate ensures the assignment was created through a constructor.
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the order this assignment belongs to.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// DriverID returns the current candidate (or accepted) driver, if any.
func (a *Assignment) DriverID() *kernel.UUID {
	return a.driverID
}

// Status returns the protocol status.
func (a *Assignment) Status() Status {
	return a.status
}

// OfferedAt returns when the current offer round started, if one has.
func (a *Assignment) OfferedAt() *time.Time {
	return a.offeredAt
}

// RespondedAt returns when the candidate responded, if they have.
func (a *Assignment) RespondedAt() *time.Time {
	return a.respondedAt
}

// ExpiresAt returns the current offer's deadline, if an offer is live.
func (a *Assignment) ExpiresAt() *time.Time {
	return a.expiresAt
}

// AttemptCount returns how many offer rounds have been made.
func (a *Assignment) AttemptCount() int {
	return a.attemptCount
}

// Version returns the optimistic-concurrency version loaded from storage.
func (a *Assignment) Version() int {
	return a.version
}

// IsAccepted reports whether a driver has accepted the order.
func (a *Assignment) IsAccepted() bool {
	return a.status == Accepted
}

// HasExpired reports whether a live offer's window has closed.
func (a *Assignment) HasExpired(now time.Time) bool {
	return a.status == Offered && a.expiresAt != nil && now.After(*a.expiresAt)
}

// Offer starts a new offer round for the given candidate with a deadline of
// now+window and increments the attempt count. Legal from Unassigned,
// Rejected or Expired.
func (a *Assignment) Offer(driverID kernel.UUID, window time.Duration, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if window <= 0 {
		return errs.NewValueIsInvalidError("offer window")
	}
	if !a.status.CanOffer() {
		return errs.NewInvalidTransitionError("assignment", a.status.String(), Offered.String())
	}

	deadline := now.Add(window)
	a.driverID = &driverID
	a.status = Offered
	a.offeredAt = &now
	a.respondedAt = nil
	a.expiresAt = &deadline
	a.attemptCount++
	return nil
}

// Accept transitions Offered -> Accepted for the responding driver.
//
// Returns Conflict when the offer is no longer live (another driver already
// won, or it was withdrawn), OfferExpired when the window has closed, and
// Conflict when the responder is not the current candidate unless
// anyCandidate allows accepts from any eligible driver.
func (a *Assignment) Accept(driverID kernel.UUID, now time.Time, anyCandidate bool) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if a.status == Accepted {
		return errs.NewConflictError("assignment", a.id.String())
	}
	if a.status != Offered {
		return errs.NewInvalidTransitionError("assignment", a.status.String(), Accepted.String())
	}
	if a.HasExpired(now) {
		return errs.NewOfferExpiredError("assignment", a.id.String())
	}
	if !anyCandidate && (a.driverID == nil || !a.driverID.IsEqual(driverID)) {
		return errs.NewConflictError("assignment", a.id.String())
	}

	a.driverID = &driverID
	a.status = Accepted
	a.respondedAt = &now
	return nil
}

// Reject transitions Offered -> Rejected for the current candidate.
// The coordinator then re-offers to the next candidate.
func (a *Assignment) Reject(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if a.status != Offered {
		return errs.NewInvalidTransitionError("assignment", a.status.String(), Rejected.String())
	}
	if a.driverID == nil || !a.driverID.IsEqual(driverID) {
		return errs.NewConflictError("assignment", a.id.String())
	}

	a.status = Rejected
	a.respondedAt = &now
	return nil
}

// Expire transitions Offered -> Expired once the offer window has closed.
// Called by the background poller, never by a driver.
func (a *Assignment) Expire(now time.Time) error {
	if a.status != Offered {
		return errs.NewInvalidTransitionError("assignment", a.status.String(), Expired.String())
	}
	if !a.HasExpired(now) {
		return errs.NewValueIsInvalidError("offer has not expired yet")
	}

	a.status = Expired
	return nil
}
