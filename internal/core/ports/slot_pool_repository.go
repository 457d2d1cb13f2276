package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/basket"
	"fulfillment/internal/core/domain/model/kernel"
)

// SlotPoolRepository defines the persistence contract for per-store basket
// slot pools.
type SlotPoolRepository interface {
	// Get retrieves the store's slot pool. A store without persisted
	// occupancy gets a fresh empty pool of default capacity.
	Get(ctx context.Context, storeID kernel.UUID) (*basket.SlotPool, error)

	// Save persists the store's slot occupancy.
	Save(ctx context.Context, pool *basket.SlotPool) error
}
