// Package fulfillment contains the per-supplier ledger of an order: one
// SupplierStatus entity per (order, supplier) pair tracking the supplier's
// preparation state (Pending -> Ready | Partial | Cancelled), basket slot,
// pickup, and billable amount, plus the order's add-only Unavailability
// record (product SKU -> suppliers that declared it unavailable).
//
// The ledger is the single source of truth consumed by the readiness
// aggregator and the dispatch engine.
package fulfillment
