package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
)

// CatalogReader provides the read-side view of supplier assignments. It is
// backed by the store catalog and may serve cached ladders, so it lives
// outside the unit of work.
type CatalogReader interface {
	// AssignmentsFor retrieves the supplier ladder of a product within a
	// store, every rung included regardless of the active flag.
	AssignmentsFor(ctx context.Context, storeID kernel.UUID, sku string) (catalog.Assignments, error)
}
