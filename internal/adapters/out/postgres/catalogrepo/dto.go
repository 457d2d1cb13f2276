// Package catalogrepo provides read access to the store catalog's supplier
// assignment ladders.
package catalogrepo

import (
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents one rung of a product's supplier ladder within a
// store. Priorities are strict; rung 1 is the primary supplier.
type AssignmentDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	StoreID    uuid.UUID `gorm:"type:uuid;not null;index:idx_assignments_store_sku"`
	SKU        string    `gorm:"type:varchar(64);not null;index:idx_assignments_store_sku;column:sku"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null"`
	Priority   int       `gorm:"type:int;not null"`
	Active     bool      `gorm:"not null"`
}

// TableName specifies the database table name for supplier assignments.
// Overrides GORM's default naming convention to use "supplier_assignments".
func (AssignmentDTO) TableName() string {
	return "supplier_assignments"
}

// toDomain converts assignment DTOs to a domain ladder.
func toDomain(dtos []AssignmentDTO) (catalog.Assignments, error) {
	ladder := make(catalog.Assignments, 0, len(dtos))
	for _, dto := range dtos {
		supplierID, err := kernel.UUIDFromBytes(dto.SupplierID[:])
		if err != nil {
			return nil, err
		}

		assignment, err := catalog.NewAssignment(supplierID, dto.Priority, dto.Active)
		if err != nil {
			return nil, err
		}
		ladder = append(ladder, assignment)
	}
	return ladder, nil
}
