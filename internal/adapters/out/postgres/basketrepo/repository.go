package basketrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/basket"
	"fulfillment/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormSlotPoolRepository implements SlotPoolRepository using GORM.
type GormSlotPoolRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSlotPoolRepository creates a new GORM slot pool repository.
func NewGormSlotPoolRepository(db *gorm.DB, tracker aggregateTracker) *GormSlotPoolRepository {
	return &GormSlotPoolRepository{
		db:      db,
		tracker: tracker,
	}
}

// Get retrieves the store's slot pool. A store without persisted occupancy
// gets a fresh empty pool of default capacity.
func (r *GormSlotPoolRepository) Get(ctx context.Context, storeID kernel.UUID) (*basket.SlotPool, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}

	var dtos []SlotDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "store_id = ?", storeID.Bytes()).Error; err != nil {
		return nil, err
	}

	return toDomain(storeID, dtos)
}

// Save persists the store's slot occupancy by replacing its rows.
func (r *GormSlotPoolRepository) Save(ctx context.Context, pool *basket.SlotPool) error {
	if err := pool.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if err := db.Delete(&SlotDTO{}, "store_id = ?", pool.StoreID().Bytes()).Error; err != nil {
		return err
	}

	dtos := fromDomain(pool)
	if len(dtos) > 0 {
		if err := db.Create(&dtos).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(pool.StoreID(), pool)
	return nil
}
