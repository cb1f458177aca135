// Package order contains the Order aggregate of the fulfillment domain.
//
// An Order spans one or more stores; each store's portion is a StoreSubOrder
// with its own preparation lifecycle, and each sub-order carries immutable
// Item snapshots taken at checkout. The aggregate's top-level Status is a
// derived value: it is recomputed from the sub-order statuses and the
// driver-assignment outcome after every mutation, never set directly.
//
// The aggregate guarantees that order totals always reflect exactly the
// surviving (non-rejected) sub-orders, that illegal transitions fail without
// side effects, and that the delivery leg can only be advanced by the
// assigned driver once every surviving sub-order is ready.
package order
