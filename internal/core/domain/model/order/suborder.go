package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrSubOrderIsNotConstructed is returned when a StoreSubOrder instance was
// not created through one of its factory methods.
var ErrSubOrderIsNotConstructed = errors.New(
	"StoreSubOrder must be created via NewStoreSubOrder or RestoreStoreSubOrder")

// StoreSubOrder is the portion of an order fulfilled by a single store.
// It is owned exclusively by its Order aggregate and carries its own
// preparation lifecycle (see SubOrderStatus) plus the monetary share the
// store contributes to the order's totals.
//
// Invariant: subtotal equals the sum of the line-item totals. The subtotal
// is fixed at construction; a rejected sub-order keeps its amounts but is
// excluded from the parent order's totals.
type StoreSubOrder struct {
	id          kernel.UUID
	storeID     kernel.UUID
	status      SubOrderStatus
	subtotal    kernel.Money
	deliveryFee kernel.Money
	items       []Item

	rejectReason string
	acceptedAt   *time.Time
	preparedAt   *time.Time
	approvedAt   *time.Time
	rejectedAt   *time.Time

	isConstructed bool
}

// NewStoreSubOrder creates a store's portion of an order in
// SubOrderPendingApproval status. The subtotal is computed from the items;
// at least one item is required.
func NewStoreSubOrder(id, storeID kernel.UUID, deliveryFee kernel.Money, items []Item) (*StoreSubOrder, error) {
	if err := errors.Join(id.Validate(), storeID.Validate()); err != nil {
		return nil, err
	}
	if deliveryFee.IsNegative() {
		return nil, errs.NewValueIsInvalidError("delivery fee is negative")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("sub-order items")
	}

	subtotal := kernel.NewMoney(0)
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(item.TotalPrice())
	}

	return &StoreSubOrder{
		id:            id,
		storeID:       storeID,
		status:        SubOrderPendingApproval,
		subtotal:      subtotal,
		deliveryFee:   deliveryFee,
		items:         items,
		isConstructed: true,
	}, nil
}

// RestoreStoreSubOrder reconstructs a sub-order from persistence with its
// full lifecycle state.
func RestoreStoreSubOrder(
	id, storeID kernel.UUID,
	status SubOrderStatus,
	subtotal, deliveryFee kernel.Money,
	items []Item,
	rejectReason string,
	acceptedAt, preparedAt, approvedAt, rejectedAt *time.Time,
) (*StoreSubOrder, error) {
	if err := errors.Join(id.Validate(), storeID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &StoreSubOrder{
		id:            id,
		storeID:       storeID,
		status:        status,
		subtotal:      subtotal,
		deliveryFee:   deliveryFee,
		items:         items,
		rejectReason:  rejectReason,
		acceptedAt:    acceptedAt,
		preparedAt:    preparedAt,
		approvedAt:    approvedAt,
		rejectedAt:    rejectedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the sub-order was created through a constructor.
func (s *StoreSubOrder) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSubOrderIsNotConstructed
	}
	return nil
}

// ID returns the sub-order's unique identifier.
func (s *StoreSubOrder) ID() kernel.UUID {
	return s.id
}

// StoreID returns the identifier of the store fulfilling this portion.
func (s *StoreSubOrder) StoreID() kernel.UUID {
	return s.storeID
}

// Status returns the sub-order's current preparation status.
func (s *StoreSubOrder) Status() SubOrderStatus {
	return s.status
}

// Subtotal returns the sum of the sub-order's line-item totals.
func (s *StoreSubOrder) Subtotal() kernel.Money {
	return s.subtotal
}

// DeliveryFee returns the store's share of the delivery fee.
func (s *StoreSubOrder) DeliveryFee() kernel.Money {
	return s.deliveryFee
}

// Items returns the line-item snapshots of this portion.
func (s *StoreSubOrder) Items() []Item {
	return s.items
}

// RejectReason returns the reason recorded when the store rejected the
// portion, or an empty string.
func (s *StoreSubOrder) RejectReason() string {
	return s.rejectReason
}

// AcceptedAt returns when the store started preparing, if it has.
func (s *StoreSubOrder) AcceptedAt() *time.Time {
	return s.acceptedAt
}

// PreparedAt returns when the store finished preparing, if it has.
func (s *StoreSubOrder) PreparedAt() *time.Time {
	return s.preparedAt
}

// ApprovedAt returns when the store approved the portion, if it has.
func (s *StoreSubOrder) ApprovedAt() *time.Time {
	return s.approvedAt
}

// RejectedAt returns when the store rejected the portion, if it has.
func (s *StoreSubOrder) RejectedAt() *time.Time {
	return s.rejectedAt
}

// IsSurviving reports whether the sub-order still counts toward the
// order's totals and aggregate status.
func (s *StoreSubOrder) IsSurviving() bool {
	return !s.status.IsRejected()
}

// StartPreparing moves the sub-order to SubOrderPreparing and stamps acceptedAt.
// Legal only from SubOrderPendingApproval.
func (s *StoreSubOrder) StartPreparing(now time.Time) error {
	newStatus, err := s.status.StartPreparing()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.acceptedAt = &now
	return nil
}

// FinishPreparing moves the sub-order to SubOrderReady and stamps preparedAt.
// Legal only from SubOrderPreparing.
func (s *StoreSubOrder) FinishPreparing(now time.Time) error {
	newStatus, err := s.status.FinishPreparing()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.preparedAt = &now
	return nil
}

// Approve moves the sub-order to SubOrderApproved and stamps approvedAt.
// Legal only from SubOrderReady.
func (s *StoreSubOrder) Approve(now time.Time) error {
	newStatus, err := s.status.Approve()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.approvedAt = &now
	return nil
}

// Reject moves the sub-order to SubOrderRejected, stamps rejectedAt and
// records the reason. Legal from SubOrderPendingApproval or SubOrderReady.
// The parent aggregate recomputes its totals afterwards.
func (s *StoreSubOrder) Reject(reason string, now time.Time) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reject reason")
	}

	newStatus, err := s.status.Reject()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.rejectReason = reason
	s.rejectedAt = &now
	return nil
}
