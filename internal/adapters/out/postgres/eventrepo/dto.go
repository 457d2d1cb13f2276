// Package eventrepo provides data transfer objects and mapping functions for
// the order event log.
package eventrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

// OrderEventDTO represents one row of the order audit trail.
type OrderEventDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	EventType  string     `gorm:"type:varchar(64);not null"`
	SupplierID *uuid.UUID `gorm:"type:uuid"`
	SKUs       string     `gorm:"type:text;column:skus"`
	OccurredAt time.Time  `gorm:"not null;index"`
}

// TableName specifies the database table name for order events.
// Overrides GORM's default naming convention to use "order_events".
func (OrderEventDTO) TableName() string {
	return "order_events"
}

// fromDomain converts an order event to its database representation.
// The SKU list is serialized as JSON text.
func fromDomain(event ports.OrderEvent) (OrderEventDTO, error) {
	skus, err := json.Marshal(event.SKUs)
	if err != nil {
		return OrderEventDTO{}, err
	}

	var supplierID *uuid.UUID
	if event.SupplierID != nil {
		raw := event.SupplierID.Bytes()
		supplierID = &raw
	}

	return OrderEventDTO{
		ID:         event.ID.Bytes(),
		OrderID:    event.OrderID.Bytes(),
		EventType:  string(event.Type),
		SupplierID: supplierID,
		SKUs:       string(skus),
		OccurredAt: event.OccurredAt,
	}, nil
}

