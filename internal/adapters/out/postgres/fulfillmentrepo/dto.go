// Package fulfillmentrepo provides data transfer objects and mapping functions for the
// supplier ledger: per-supplier fulfillment entries and the order's unavailability record.
package fulfillmentrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierStatusDTO represents the database structure for one supplier's
// ledger entry. The (order, supplier) pair forms the primary key; CreatedAt
// marks the dispatch moment and drives the pending reminder cutoff.
type SupplierStatusDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupplierID uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoreID    uuid.UUID `gorm:"type:uuid;not null;index"`

	Status     int        `gorm:"type:int;not null;index"`
	BasketSlot *int       `gorm:"type:int"`
	ReadyAt    *time.Time `gorm:""`

	PickedUp   bool       `gorm:"not null"`
	PickedUpAt *time.Time `gorm:""`
	PickedUpBy *uuid.UUID `gorm:"type:uuid"`

	UnavailableSKUs string          `gorm:"type:text;column:unavailable_skus"`
	OriginalTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BillableAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for supplier ledger entries.
// Overrides GORM's default naming convention to use "supplier_statuses".
func (SupplierStatusDTO) TableName() string {
	return "supplier_statuses"
}

// UnavailabilityEntryDTO represents one row of the order's add-only
// unavailability record: a supplier declared a product unavailable.
type UnavailabilityEntryDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU        string    `gorm:"type:varchar(64);primaryKey;column:sku"`
	SupplierID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName specifies the database table name for unavailability entries.
// Overrides GORM's default naming convention to use "unavailability_entries".
func (UnavailabilityEntryDTO) TableName() string {
	return "unavailability_entries"
}

// fromDomain converts a ledger entry to its database representation.
// The unavailable SKU list is serialized as JSON text.
func fromDomain(entry *fulfillment.SupplierStatus) (SupplierStatusDTO, error) {
	skus, err := json.Marshal(entry.UnavailableSKUs())
	if err != nil {
		return SupplierStatusDTO{}, err
	}

	var pickedUpBy *uuid.UUID
	if id := entry.PickedUpBy(); id != nil {
		raw := id.Bytes()
		pickedUpBy = &raw
	}

	return SupplierStatusDTO{
		OrderID:         entry.OrderID().Bytes(),
		SupplierID:      entry.SupplierID().Bytes(),
		StoreID:         entry.StoreID().Bytes(),
		Status:          int(entry.Status()),
		BasketSlot:      entry.BasketSlot(),
		ReadyAt:         entry.ReadyAt(),
		PickedUp:        entry.IsPickedUp(),
		PickedUpAt:      entry.PickedUpAt(),
		PickedUpBy:      pickedUpBy,
		UnavailableSKUs: string(skus),
		OriginalTotal:   entry.OriginalTotal().Decimal(),
		BillableAmount:  entry.BillableAmount().Decimal(),
	}, nil
}

// toDomain converts a database DTO to a ledger entry using RestoreSupplierStatus.
func toDomain(dto SupplierStatusDTO) (*fulfillment.SupplierStatus, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	supplierID, err := kernel.UUIDFromBytes(dto.SupplierID[:])
	if err != nil {
		return nil, err
	}

	storeID, err := kernel.UUIDFromBytes(dto.StoreID[:])
	if err != nil {
		return nil, err
	}

	var pickedUpBy *kernel.UUID
	if dto.PickedUpBy != nil {
		id, byErr := kernel.UUIDFromBytes((*dto.PickedUpBy)[:])
		if byErr != nil {
			return nil, byErr
		}
		pickedUpBy = &id
	}

	var unavailableSKUs []string
	if dto.UnavailableSKUs != "" {
		if err = json.Unmarshal([]byte(dto.UnavailableSKUs), &unavailableSKUs); err != nil {
			return nil, err
		}
	}

	originalTotal, err := kernel.NewMoney(dto.OriginalTotal)
	if err != nil {
		return nil, err
	}

	billableAmount, err := kernel.NewMoney(dto.BillableAmount)
	if err != nil {
		return nil, err
	}

	return fulfillment.RestoreSupplierStatus(
		orderID, supplierID, storeID,
		fulfillment.Status(dto.Status), dto.BasketSlot, dto.ReadyAt,
		dto.PickedUp, dto.PickedUpAt, pickedUpBy,
		unavailableSKUs, originalTotal, billableAmount,
	)
}

// recordFromDomain flattens an unavailability record into its rows.
func recordFromDomain(record *fulfillment.Unavailability) []UnavailabilityEntryDTO {
	orderID := record.OrderID().Bytes()

	var dtos []UnavailabilityEntryDTO
	for _, sku := range record.SKUs() {
		for _, supplierID := range record.Suppliers(sku) {
			dtos = append(dtos, UnavailabilityEntryDTO{
				OrderID:    orderID,
				SKU:        sku,
				SupplierID: supplierID.Bytes(),
			})
		}
	}
	return dtos
}

// recordToDomain rebuilds an unavailability record from its rows.
func recordToDomain(orderID kernel.UUID, dtos []UnavailabilityEntryDTO) (*fulfillment.Unavailability, error) {
	entries := make(map[string][]kernel.UUID, len(dtos))
	for _, dto := range dtos {
		supplierID, err := kernel.UUIDFromBytes(dto.SupplierID[:])
		if err != nil {
			return nil, err
		}
		entries[dto.SKU] = append(entries[dto.SKU], supplierID)
	}

	return fulfillment.RestoreUnavailability(orderID, entries)
}
