// Package order contains the Order aggregate: the immutable line-item list
// received from the marketplace, each item's primary supplier assignment, and
// the order-level status lifecycle
// (Created -> Accepted -> Preparing -> Ready -> Dispatched -> Delivered, with
// Cancelled reachable from any non-terminal state).
//
// Per-supplier preparation state lives in the fulfillment package; this
// package only knows the order header and which supplier each line item was
// assigned to at intake.
package order
