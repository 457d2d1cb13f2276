package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// NotificationKind classifies outbound notifications.
type NotificationKind string

const (
	// NotificationDispatch tells a supplier that products were dispatched to
	// them, either at intake or through escalation.
	NotificationDispatch NotificationKind = "dispatch"

	// NotificationReminder nudges a supplier that has not reacted to a
	// dispatched order.
	NotificationReminder NotificationKind = "reminder"

	// NotificationNoSupplier tells store staff that a product ran out of
	// suppliers to escalate to.
	NotificationNoSupplier NotificationKind = "no_supplier_available"

	// NotificationSupplierReady tells store staff that one supplier's basket
	// is staged and waiting for collection.
	NotificationSupplierReady NotificationKind = "supplier_ready"

	// NotificationOrderReady tells store staff that every active supplier of
	// an order is ready.
	NotificationOrderReady NotificationKind = "order_ready"

	// NotificationOrderCancelled tells store staff that every supplier of an
	// order dropped out.
	NotificationOrderCancelled NotificationKind = "order_cancelled"
)

// Notification is the payload delivered to supplier and staff terminals.
type Notification struct {
	Kind       NotificationKind `json:"kind"`
	OrderID    kernel.UUID      `json:"orderId"`
	SupplierID *kernel.UUID     `json:"supplierId,omitempty"`
	SKUs       []string         `json:"skus,omitempty"`
	Message    string           `json:"message,omitempty"`
}

// Notifier delivers notifications to supplier and staff terminals.
//
// Delivery is best effort: implementations must not block business
// operations on unreachable terminals, and callers treat every error as
// non-fatal.
type Notifier interface {
	// NotifySupplier delivers a notification to one supplier's terminal.
	NotifySupplier(ctx context.Context, supplierID kernel.UUID, notification Notification) error

	// NotifyStaff delivers a notification to the store staff terminal.
	NotifyStaff(ctx context.Context, storeID kernel.UUID, notification Notification) error
}
