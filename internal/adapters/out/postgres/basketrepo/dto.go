// Package basketrepo provides data transfer objects and mapping functions for
// per-store basket slot occupancy.
package basketrepo

import (
	"fulfillment/internal/core/domain/model/basket"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// SlotDTO represents one occupied basket slot. Free slots have no row, so a
// store's pool is the set of its rows plus the fixed capacity.
type SlotDTO struct {
	StoreID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slot       int       `gorm:"primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName specifies the database table name for basket slot occupancy.
// Overrides GORM's default naming convention to use "basket_slots".
func (SlotDTO) TableName() string {
	return "basket_slots"
}

// fromDomain flattens a slot pool into its occupied rows.
func fromDomain(pool *basket.SlotPool) []SlotDTO {
	storeID := pool.StoreID().Bytes()
	occupied := pool.Occupied()

	dtos := make([]SlotDTO, 0, len(occupied))
	for _, slot := range pool.OccupiedSlots() {
		occupant := occupied[slot]
		dtos = append(dtos, SlotDTO{
			StoreID:    storeID,
			Slot:       slot,
			OrderID:    occupant.OrderID.Bytes(),
			SupplierID: occupant.SupplierID.Bytes(),
		})
	}
	return dtos
}

// toDomain rebuilds a store's slot pool from its occupied rows.
func toDomain(storeID kernel.UUID, dtos []SlotDTO) (*basket.SlotPool, error) {
	occupied := make(map[int]basket.Occupant, len(dtos))
	for _, dto := range dtos {
		orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
		if err != nil {
			return nil, err
		}
		supplierID, err := kernel.UUIDFromBytes(dto.SupplierID[:])
		if err != nil {
			return nil, err
		}
		occupied[dto.Slot] = basket.Occupant{OrderID: orderID, SupplierID: supplierID}
	}

	return basket.RestoreSlotPool(storeID, basket.DefaultCapacity, occupied)
}
