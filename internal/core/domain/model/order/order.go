package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder. This ensures all orders are
	// properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Order is the aggregate root for a single customer purchase, possibly
// spanning several stores. It owns its StoreSubOrders and is mutated
// exclusively through the methods below; after every mutation the aggregate
// status is re-derived from the sub-order statuses and the driver-assignment
// outcome, so it can never drift from its parts.
//
// Order maintains these invariants:
//   - totalAmount == sum(subtotal + deliveryFee) over surviving sub-orders
//   - at least one sub-order, at most one per store
//   - status transitions follow the table in status.go
//   - the delivery leg (picked up / out for delivery / delivered) is only
//     advanced by the assigned driver and only after ReadyForDelivery
type Order struct {
	id            kernel.UUID
	orderNumber   string
	customerID    kernel.UUID
	street        string
	location      kernel.GeoPoint
	paymentMethod PaymentMethod

	subtotal    kernel.Money
	deliveryFee kernel.Money
	totalAmount kernel.Money

	status         Status
	driverAccepted bool
	subOrders      []*StoreSubOrder

	version     int
	createdAt   time.Time
	deliveredAt *time.Time

	isConstructed bool
}

// NewOrder creates an order from its store sub-orders at checkout time.
// The order starts in PendingDriverApproval and its totals are computed
// from the sub-orders. Each store may contribute at most one sub-order.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	customerID kernel.UUID,
	street string,
	location kernel.GeoPoint,
	paymentMethod PaymentMethod,
	subOrders []*StoreSubOrder,
) (*Order, error) {
	o := &Order{
		status:        PendingDriverApproval,
		createdAt:     time.Now().UTC(),
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setCustomerID(customerID),
		o.setDestination(street, location),
		o.setPaymentMethod(paymentMethod),
		o.setSubOrders(subOrders),
	); err != nil {
		return nil, err
	}

	if err := o.recomputeTotals(); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence. Totals are recomputed
// from the sub-orders so a stored row can never violate the totals invariant
// once loaded.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	customerID kernel.UUID,
	street string,
	location kernel.GeoPoint,
	paymentMethod PaymentMethod,
	status Status,
	driverAccepted bool,
	subOrders []*StoreSubOrder,
	version int,
	createdAt time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	o := &Order{
		status:         status,
		driverAccepted: driverAccepted,
		version:        version,
		createdAt:      createdAt,
		deliveredAt:    deliveredAt,
		isConstructed:  true,
	}

	if err := errors.Join(
		status.Validate(),
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setCustomerID(customerID),
		o.setDestination(street, location),
		o.setPaymentMethod(paymentMethod),
		o.setSubOrders(subOrders),
	); err != nil {
		return nil, err
	}

	if err := o.recomputeTotals(); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-readable order number.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Street returns the delivery street address.
func (o *Order) Street() string {
	return o.street
}

// Location returns the delivery coordinates.
func (o *Order) Location() kernel.GeoPoint {
	return o.location
}

// PaymentMethod returns how the customer pays.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// Subtotal returns the sum of surviving sub-order subtotals.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// DeliveryFee returns the sum of surviving sub-order delivery fees.
func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

// TotalAmount returns subtotal plus delivery fee over surviving sub-orders.
func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// Status returns the current aggregate status.
func (o *Order) Status() Status {
	return o.status
}

// DriverAccepted reports whether a driver has accepted the delivery offer.
func (o *Order) DriverAccepted() bool {
	return o.driverAccepted
}

// SubOrders returns the order's store sub-orders, rejected ones included.
func (o *Order) SubOrders() []*StoreSubOrder {
	return o.subOrders
}

// StoresCount returns the number of stores participating in the order.
func (o *Order) StoresCount() int {
	return len(o.subOrders)
}

// Version returns the optimistic-concurrency version loaded from storage.
func (o *Order) Version() int {
	return o.version
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// DeliveredAt returns when the order was delivered, if it has been.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// SubOrder returns the sub-order with the given identifier.
func (o *Order) SubOrder(subOrderID kernel.UUID) (*StoreSubOrder, error) {
	for _, sub := range o.subOrders {
		if sub.ID().IsEqual(subOrderID) {
			return sub, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("sub-order", subOrderID.String())
}

// AcceptDriver records that a driver won the delivery offer. Legal only
// while the order awaits a driver; the aggregate then re-derives to
// PendingStoreApproval so the store workflow can begin.
func (o *Order) AcceptDriver() error {
	if !o.status.CanTransitionTo(DriverAccepted) {
		return errs.NewInvalidTransitionError("order", o.status.String(), DriverAccepted.String())
	}

	o.driverAccepted = true
	o.status = DriverAccepted
	o.refresh()
	return nil
}

// StartPreparing moves one store's sub-order into preparation and re-derives
// the aggregate status.
func (o *Order) StartPreparing(subOrderID kernel.UUID, now time.Time) error {
	sub, err := o.actionableSubOrder(subOrderID, SubOrderPreparing)
	if err != nil {
		return err
	}

	if err = sub.StartPreparing(now); err != nil {
		return err
	}

	o.refresh()
	return nil
}

// FinishPreparing marks one store's sub-order as ready and re-derives the
// aggregate status.
func (o *Order) FinishPreparing(subOrderID kernel.UUID, now time.Time) error {
	sub, err := o.actionableSubOrder(subOrderID, SubOrderReady)
	if err != nil {
		return err
	}

	if err = sub.FinishPreparing(now); err != nil {
		return err
	}

	o.refresh()
	return nil
}

// ApproveSubOrder records the store's final sign-off on its portion and
// re-derives the aggregate status.
func (o *Order) ApproveSubOrder(subOrderID kernel.UUID, now time.Time) error {
	sub, err := o.actionableSubOrder(subOrderID, SubOrderApproved)
	if err != nil {
		return err
	}

	if err = sub.Approve(now); err != nil {
		return err
	}

	o.refresh()
	return nil
}

// RejectSubOrder records a store's refusal of its portion, recomputes the
// order totals over the surviving sub-orders, and re-derives the aggregate
// status. If every sub-order is now rejected the order becomes Cancelled.
func (o *Order) RejectSubOrder(subOrderID kernel.UUID, reason string, now time.Time) error {
	sub, err := o.actionableSubOrder(subOrderID, SubOrderRejected)
	if err != nil {
		return err
	}

	if err = sub.Reject(reason, now); err != nil {
		return err
	}

	if err = o.recomputeTotals(); err != nil {
		return err
	}

	o.refresh()
	return nil
}

// MarkPickedUp records that the driver collected the order.
// Legal only from ReadyForDelivery.
func (o *Order) MarkPickedUp() error {
	if !o.status.CanTransitionTo(DriverPickedUp) {
		return errs.NewInvalidTransitionError("order", o.status.String(), DriverPickedUp.String())
	}

	o.status = DriverPickedUp
	return nil
}

// MarkOutForDelivery records that the driver is en route to the customer.
// Legal only from DriverPickedUp.
func (o *Order) MarkOutForDelivery() error {
	if !o.status.CanTransitionTo(OutForDelivery) {
		return errs.NewInvalidTransitionError("order", o.status.String(), OutForDelivery.String())
	}

	o.status = OutForDelivery
	return nil
}

// MarkDelivered records the completed delivery and stamps deliveredAt.
// Legal only from OutForDelivery. Terminal.
func (o *Order) MarkDelivered(now time.Time) error {
	if !o.status.CanTransitionTo(Delivered) {
		return errs.NewInvalidTransitionError("order", o.status.String(), Delivered.String())
	}

	o.status = Delivered
	o.deliveredAt = &now
	return nil
}

// Cancel moves the order to Cancelled from any non-terminal status.
// Cancelling an already-cancelled order is a successful no-op; the returned
// bool reports whether the status actually changed, so callers can suppress
// duplicate transition events. Cancelling a delivered order is illegal.
func (o *Order) Cancel() (bool, error) {
	if o.status == Cancelled {
		return false, nil
	}
	if !o.status.CanTransitionTo(Cancelled) {
		return false, errs.NewInvalidTransitionError("order", o.status.String(), Cancelled.String())
	}

	o.status = Cancelled
	return true, nil
}

// refresh re-derives the aggregate status from the current sub-state.
// Driver-asserted delivery-leg statuses and terminal statuses are sticky:
// derivation never moves the order backwards out of them.
func (o *Order) refresh() {
	switch o.status {
	case DriverPickedUp, OutForDelivery, Delivered, Cancelled:
		return
	}

	next := DeriveStatus(o.driverAccepted, o.subOrderStatuses())
	if next == o.status {
		return
	}
	o.status = next
}

// actionableSubOrder looks up the sub-order and checks that the aggregate is
// in a phase where stores may act: a driver must be matched and the order
// must not have left the store workflow (picked up, delivered or cancelled).
func (o *Order) actionableSubOrder(subOrderID kernel.UUID, target SubOrderStatus) (*StoreSubOrder, error) {
	switch o.status {
	case PendingStoreApproval, StorePreparing, ReadyForDelivery:
	default:
		return nil, errs.NewInvalidTransitionErrorWithCause(
			"store sub-order", o.status.String(), target.String(),
			fmt.Errorf("order %s does not allow store actions in status %s", o.id, o.status))
	}

	return o.SubOrder(subOrderID)
}

// recomputeTotals rebuilds the order's monetary fields as the sum over the
// surviving (non-rejected) sub-orders. Runs on construction, restoration and
// after every rejection so observers never see a rejected sub-order counted
// into the totals.
func (o *Order) recomputeTotals() error {
	subtotal := kernel.NewMoney(0)
	deliveryFee := kernel.NewMoney(0)

	for _, sub := range o.subOrders {
		if !sub.IsSurviving() {
			continue
		}
		subtotal = subtotal.Add(sub.Subtotal())
		deliveryFee = deliveryFee.Add(sub.DeliveryFee())
	}

	total := subtotal.Add(deliveryFee)
	if err := errors.Join(subtotal.Validate(), deliveryFee.Validate(), total.Validate()); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("order totals", err)
	}

	o.subtotal = subtotal
	o.deliveryFee = deliveryFee
	o.totalAmount = total
	return nil
}

func (o *Order) subOrderStatuses() []SubOrderStatus {
	statuses := make([]SubOrderStatus, 0, len(o.subOrders))
	for _, sub := range o.subOrders {
		statuses = append(statuses, sub.Status())
	}
	return statuses
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setDestination(street string, location kernel.GeoPoint) error {
	if street == "" {
		return errs.NewValueIsRequiredError("delivery street")
	}
	if err := location.Validate(); err != nil {
		return err
	}
	o.street = street
	o.location = location
	return nil
}

func (o *Order) setPaymentMethod(paymentMethod PaymentMethod) error {
	if err := paymentMethod.Validate(); err != nil {
		return err
	}
	o.paymentMethod = paymentMethod
	return nil
}

func (o *Order) setSubOrders(subOrders []*StoreSubOrder) error {
	if len(subOrders) == 0 {
		return errs.NewValueIsRequiredError("sub-orders")
	}

	seenStores := make(map[kernel.UUID]struct{}, len(subOrders))
	for _, sub := range subOrders {
		if err := sub.Validate(); err != nil {
			return err
		}
		if _, ok := seenStores[sub.StoreID()]; ok {
			return errs.NewValueIsInvalidErrorWithCause("sub-orders",
				fmt.Errorf("store %s appears more than once", sub.StoreID()))
		}
		seenStores[sub.StoreID()] = struct{}{}
	}

	o.subOrders = subOrders
	return nil
}
