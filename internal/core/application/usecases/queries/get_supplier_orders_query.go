package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetSupplierOrdersQueryIsNotConstructed = errors.New(
		"GetSupplierOrdersQuery must be created via NewGetSupplierOrdersQuery constructor",
	)
)

// GetSupplierOrdersQuery retrieves a supplier's open workload: every order
// where the supplier has not yet marked ready, together with the item lines
// assigned to them. This is what the supplier terminal renders.
//
// Example:
//
//	query, err := NewGetSupplierOrdersQuery(supplierID)
//	if err != nil {
//	    return err
//	}
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get supplier orders: %w", err)
//	}
//
//	for _, o := range orders {
//	    fmt.Printf("%s: %d items\n", o.ExternalCode, len(o.Items))
//	}
type GetSupplierOrdersQuery struct {
	supplierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetSupplierOrdersQuery creates a query for one supplier's open orders.
func NewGetSupplierOrdersQuery(supplierID kernel.UUID) (GetSupplierOrdersQuery, error) {
	if err := supplierID.Validate(); err != nil {
		return GetSupplierOrdersQuery{}, err
	}

	return GetSupplierOrdersQuery{
		supplierID: supplierID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// SupplierID returns the supplier the workload is requested for.
func (q GetSupplierOrdersQuery) SupplierID() kernel.UUID {
	return q.supplierID
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetSupplierOrdersQueryIsNotConstructed if validation fails.
func (q GetSupplierOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetSupplierOrdersQueryIsNotConstructed)
}

// GetSupplierOrdersQueryResponse is one open order on a supplier's terminal.
type GetSupplierOrdersQueryResponse struct {
	OrderID        kernel.UUID
	ExternalCode   string
	OrderStatus    string
	SupplierStatus string
	CreatedAt      time.Time
	Items          []SupplierOrderItemResponse
}

// SupplierOrderItemResponse is one item line assigned to the supplier.
// Unavailable lines stay visible so the terminal can render them struck
// through.
type SupplierOrderItemResponse struct {
	SKU         string
	Name        string
	Price       kernel.Money
	Quantity    int
	Unavailable bool
}
