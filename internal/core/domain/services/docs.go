// Package services contains stateless domain services that operate across
// aggregates: the readiness aggregator that folds an order's supplier ledger
// into order-level progress, and the escalation engine that walks a
// product's supplier ladder when a supplier declares the product unavailable.
package services
