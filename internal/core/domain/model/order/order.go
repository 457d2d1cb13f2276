package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory functions.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root for a marketplace order. It owns the immutable
// line-item list and the order-level status lifecycle.
//
// Invariants:
//   - Must have a valid unique identifier and store reference
//   - Must have at least one line item; the list never changes after creation
//   - Status transitions follow the edges defined on Status
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	id           kernel.UUID
	storeID      kernel.UUID
	externalCode string
	items        []LineItem
	status       Status
	createdAt    time.Time

	guard kernel.ConstructorGuard
}

// NewOrder creates an order in Created status.
//
// Parameters:
//   - id: unique identifier for the order
//   - storeID: the store the order was placed against
//   - externalCode: the marketplace's human-facing order code (may be empty)
//   - items: the priced line items with their intake supplier assignments
func NewOrder(id, storeID kernel.UUID, externalCode string, items []LineItem) (*Order, error) {
	o := &Order{
		externalCode: externalCode,
		status:       Created,
		createdAt:    time.Now().UTC(),
		guard:        kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setStoreID(storeID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence, preserving its status
// and creation time.
func RestoreOrder(
	id, storeID kernel.UUID,
	externalCode string,
	items []LineItem,
	status Status,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		externalCode: externalCode,
		createdAt:    createdAt,
		guard:        kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setStoreID(storeID),
		o.setItems(items),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was created through a factory function.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// StoreID returns the store the order was placed against.
func (o *Order) StoreID() kernel.UUID {
	return o.storeID
}

// ExternalCode returns the marketplace's order code.
func (o *Order) ExternalCode() string {
	return o.externalCode
}

// Status returns the current order-level status.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns the order's creation time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Items returns a copy of the line-item list.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// ItemsFor returns the line items assigned to the given supplier at intake.
func (o *Order) ItemsFor(supplierID kernel.UUID) []LineItem {
	var items []LineItem
	for _, item := range o.items {
		if item.SupplierID().IsEqual(supplierID) {
			items = append(items, item)
		}
	}
	return items
}

// SupplierIDs returns the distinct suppliers assigned to this order's items,
// in first-appearance order.
func (o *Order) SupplierIDs() []kernel.UUID {
	var ids []kernel.UUID
	for _, item := range o.items {
		found := false
		for _, id := range ids {
			if id.IsEqual(item.SupplierID()) {
				found = true
				break
			}
		}
		if !found {
			ids = append(ids, item.SupplierID())
		}
	}
	return ids
}

// Total returns the sum of all line totals.
func (o *Order) Total() kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.Total())
	}
	return total
}

// Accept moves the order from Created to Accepted.
func (o *Order) Accept() error {
	return o.transition(Status.Accept)
}

// StartPreparing moves the order from Accepted to Preparing. Called when the
// first supplier commits to the order.
func (o *Order) StartPreparing() error {
	return o.transition(Status.StartPreparing)
}

// MarkReady moves the order from Preparing to Ready. The caller is
// responsible for enforcing the readiness gate beforehand.
func (o *Order) MarkReady() error {
	return o.transition(Status.MarkReady)
}

// Dispatch moves the order from Ready to Dispatched.
func (o *Order) Dispatch() error {
	return o.transition(Status.Dispatch)
}

// Deliver moves the order from Dispatched to Delivered.
func (o *Order) Deliver() error {
	return o.transition(Status.Deliver)
}

// Cancel moves any non-terminal order to Cancelled.
func (o *Order) Cancel() error {
	return o.transition(Status.Cancel)
}

func (o *Order) transition(edge func(Status) (Status, error)) error {
	newStatus, err := edge(o.status)
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setStoreID(storeID kernel.UUID) error {
	if err := storeID.Validate(); err != nil {
		return err
	}
	o.storeID = storeID
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items are required")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
