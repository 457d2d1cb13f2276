package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderFulfillmentQueryIsNotConstructed = errors.New(
		"GetOrderFulfillmentQuery must be created via NewGetOrderFulfillmentQuery constructor",
	)
)

// GetOrderFulfillmentQuery retrieves the full fulfillment picture of a single
// order: the order header plus every supplier's ledger entry and the
// aggregated readiness counts.
//
// Example:
//
//	query, err := NewGetOrderFulfillmentQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order fulfillment: %w", err)
//	}
//
//	fmt.Printf("Order %s: %d of %d suppliers ready\n",
//	    view.ExternalCode, view.ReadySuppliers, view.ActiveSuppliers)
type GetOrderFulfillmentQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderFulfillmentQuery creates a query for one order's fulfillment view.
func NewGetOrderFulfillmentQuery(orderID kernel.UUID) (GetOrderFulfillmentQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderFulfillmentQuery{}, err
	}

	return GetOrderFulfillmentQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order the view is requested for.
func (q GetOrderFulfillmentQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderFulfillmentQueryIsNotConstructed if validation fails.
func (q GetOrderFulfillmentQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderFulfillmentQueryIsNotConstructed)
}

// GetOrderFulfillmentQueryResponse is the read model of one order's
// fulfillment progress. Counts follow the readiness rules: cancelled
// suppliers leave the active set but a cancelled entry never blocks the
// remaining suppliers.
type GetOrderFulfillmentQueryResponse struct {
	OrderID      kernel.UUID
	StoreID      kernel.UUID
	ExternalCode string
	Status       string
	CreatedAt    time.Time

	Suppliers []SupplierEntryResponse

	ActiveSuppliers    int
	ReadySuppliers     int
	CancelledSuppliers int
	PickedUpBaskets    int
}

// SupplierEntryResponse is one supplier's row in the order's ledger.
type SupplierEntryResponse struct {
	SupplierID      kernel.UUID
	Status          string
	BasketSlot      *int
	ReadyAt         *time.Time
	PickedUp        bool
	UnavailableSKUs []string
	OriginalTotal   kernel.Money
	BillableAmount  kernel.Money
}
