package catalogrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCatalogReader implements CatalogReader using GORM. It reads committed
// catalog data outside the unit of work; ladders change rarely and a cache
// decorator can sit in front of it.
type GormCatalogReader struct {
	db *gorm.DB
}

// NewGormCatalogReader creates a new GORM catalog reader.
func NewGormCatalogReader(db *gorm.DB) *GormCatalogReader {
	return &GormCatalogReader{db: db}
}

// AssignmentsFor retrieves the supplier ladder of a product within a store,
// every rung included regardless of the active flag, sorted by priority.
func (r *GormCatalogReader) AssignmentsFor(
	ctx context.Context,
	storeID kernel.UUID,
	sku string,
) (catalog.Assignments, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku is required")
	}

	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND sku = ?", storeID.Bytes(), sku).
		Order("priority").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomain(dtos)
}
