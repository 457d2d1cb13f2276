package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
)

// FulfillmentRepository defines the persistence contract for an order's
// supplier ledger: SupplierStatus entries and the order's unavailability
// record.
type FulfillmentRepository interface {
	// AddSupplierStatus persists a new ledger entry.
	AddSupplierStatus(ctx context.Context, entry *fulfillment.SupplierStatus) error

	// UpdateSupplierStatus persists changes to an existing ledger entry.
	UpdateSupplierStatus(ctx context.Context, entry *fulfillment.SupplierStatus) error

	// GetSupplierStatus retrieves the ledger entry for one (order, supplier)
	// pair.
	GetSupplierStatus(ctx context.Context, orderID, supplierID kernel.UUID) (*fulfillment.SupplierStatus, error)

	// GetAllForOrder retrieves the order's full ledger.
	GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*fulfillment.SupplierStatus, error)

	// GetAllPendingBefore retrieves Pending and Partial entries of orders
	// dispatched before the cutoff. Used by the reminder job.
	GetAllPendingBefore(ctx context.Context, cutoff time.Time) ([]*fulfillment.SupplierStatus, error)

	// GetUnavailability retrieves the order's unavailability record, or an
	// empty record when nothing was declared yet.
	GetUnavailability(ctx context.Context, orderID kernel.UUID) (*fulfillment.Unavailability, error)

	// SaveUnavailability persists the order's unavailability record.
	SaveUnavailability(ctx context.Context, record *fulfillment.Unavailability) error
}
