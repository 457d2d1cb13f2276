package fulfillment

import (
	"errors"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrUnavailabilityIsNotConstructed is returned when an Unavailability was
// not created through its constructors.
var ErrUnavailabilityIsNotConstructed = errors.New(
	"Unavailability must be created via NewUnavailability or RestoreUnavailability constructor")

// Unavailability is the order's add-only record of products declared
// unavailable: product SKU mapped to the suppliers that declared it.
//
// Entries are never removed. A supplier that changes their mind must be
// handled operationally; the record itself only grows, so billable amounts
// and statuses derived from it never move backwards for a committed supplier.
type Unavailability struct {
	orderID kernel.UUID
	entries map[string][]kernel.UUID

	guard kernel.ConstructorGuard
}

// NewUnavailability creates an empty record for an order.
func NewUnavailability(orderID kernel.UUID) (*Unavailability, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return &Unavailability{
		orderID: orderID,
		entries: make(map[string][]kernel.UUID),
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// RestoreUnavailability rehydrates a record from persistence.
func RestoreUnavailability(orderID kernel.UUID, entries map[string][]kernel.UUID) (*Unavailability, error) {
	record, err := NewUnavailability(orderID)
	if err != nil {
		return nil, err
	}
	for sku, suppliers := range entries {
		for _, supplierID := range suppliers {
			record.Add(sku, supplierID)
		}
	}
	return record, nil
}

// OrderID returns the order the record belongs to.
func (u *Unavailability) OrderID() kernel.UUID {
	return u.orderID
}

// Add records that a supplier declared a product unavailable. Adding the
// same pair twice is a no-op.
func (u *Unavailability) Add(sku string, supplierID kernel.UUID) {
	if u.IsUnavailable(sku, supplierID) {
		return
	}
	u.entries[sku] = append(u.entries[sku], supplierID)
}

// IsUnavailable reports whether the supplier declared the product unavailable.
func (u *Unavailability) IsUnavailable(sku string, supplierID kernel.UUID) bool {
	for _, id := range u.entries[sku] {
		if id.IsEqual(supplierID) {
			return true
		}
	}
	return false
}

// Suppliers returns the suppliers that declared the product unavailable, in
// declaration order.
func (u *Unavailability) Suppliers(sku string) []kernel.UUID {
	result := make([]kernel.UUID, len(u.entries[sku]))
	copy(result, u.entries[sku])
	return result
}

// SKUs returns the recorded product SKUs in lexicographic order.
func (u *Unavailability) SKUs() []string {
	result := make([]string, 0, len(u.entries))
	for sku := range u.entries {
		result = append(result, sku)
	}
	sort.Strings(result)
	return result
}

// Entries returns a copy of the full record for persistence mapping.
func (u *Unavailability) Entries() map[string][]kernel.UUID {
	result := make(map[string][]kernel.UUID, len(u.entries))
	for sku, suppliers := range u.entries {
		result[sku] = append([]kernel.UUID(nil), suppliers...)
	}
	return result
}

// Validate ensures the record was created through a constructor.
func (u *Unavailability) Validate() error {
	return u.guard.Validate(ErrUnavailabilityIsNotConstructed)
}
