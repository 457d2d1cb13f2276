package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// OrderEventType classifies entries of the order event log.
type OrderEventType string

const (
	EventOrderCreated       OrderEventType = "order.created"
	EventOrderAccepted      OrderEventType = "order.accepted"
	EventOrderPreparing     OrderEventType = "order.preparing"
	EventOrderReady         OrderEventType = "order.ready"
	EventOrderDispatched    OrderEventType = "order.dispatched"
	EventOrderDelivered     OrderEventType = "order.delivered"
	EventOrderCancelled     OrderEventType = "order.cancelled"
	EventSupplierDispatched OrderEventType = "supplier.dispatched"
	EventSupplierReady      OrderEventType = "supplier.ready"
	EventSupplierPartial    OrderEventType = "supplier.partial"
	EventSupplierCancelled  OrderEventType = "supplier.cancelled"
	EventSupplierEscalated  OrderEventType = "supplier.escalated"
	EventBasketPickedUp     OrderEventType = "basket.picked_up"
)

// OrderEvent is one entry of an order's audit trail. Events are appended in
// the same transaction as the state change they describe and published to
// the event stream after commit.
type OrderEvent struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	Type       OrderEventType
	SupplierID *kernel.UUID
	SKUs       []string
	OccurredAt time.Time
}

// NewOrderEvent creates an event for an order state change.
func NewOrderEvent(orderID kernel.UUID, eventType OrderEventType) OrderEvent {
	return OrderEvent{
		ID:         kernel.NewUUID(),
		OrderID:    orderID,
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
	}
}

// NewSupplierEvent creates an event for a supplier-level state change.
func NewSupplierEvent(orderID, supplierID kernel.UUID, eventType OrderEventType, skus []string) OrderEvent {
	event := NewOrderEvent(orderID, eventType)
	event.SupplierID = &supplierID
	event.SKUs = skus
	return event
}

// OrderEventRepository appends events to the order's audit trail inside the
// current transaction.
type OrderEventRepository interface {
	Add(ctx context.Context, event OrderEvent) error
}

// OrderEventPublisher publishes committed events to the external event
// stream. Publishing is best effort and never fails business operations.
type OrderEventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}
