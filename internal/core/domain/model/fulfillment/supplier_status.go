package fulfillment

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ErrSupplierStatusIsNotConstructed is returned when a SupplierStatus was not
// created through its constructors.
var ErrSupplierStatusIsNotConstructed = errors.New(
	"SupplierStatus must be created via NewSupplierStatus or RestoreSupplierStatus constructor")

// SupplierStatus is one ledger entry of an order: the preparation state of a
// single supplier's assigned items, the basket slot their prepared items are
// staged in, pickup bookkeeping, and the amount the supplier will be paid.
//
// Billable amount derivation:
//   - Pending:   original total (nothing declared unavailable yet)
//   - Partial:   original total minus the total of unavailable lines
//   - Ready:     frozen at the value computed from the record so far
//   - Cancelled: zero
//
// The entry is identified by the (order, supplier) pair.
type SupplierStatus struct {
	orderID    kernel.UUID
	supplierID kernel.UUID
	storeID    kernel.UUID

	status     Status
	basketSlot *int
	readyAt    *time.Time

	pickedUp   bool
	pickedUpAt *time.Time
	pickedUpBy *kernel.UUID

	unavailableSKUs []string
	originalTotal   kernel.Money
	billableAmount  kernel.Money

	guard kernel.ConstructorGuard
}

// NewSupplierStatus creates a Pending ledger entry for a supplier's share of
// an order. The items are the supplier's assigned lines; at least one is
// required, and every line's total contributes to the original total.
func NewSupplierStatus(
	orderID kernel.UUID, supplierID kernel.UUID, storeID kernel.UUID, items []order.LineItem,
) (*SupplierStatus, error) {
	entry := &SupplierStatus{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		entry.setOrderID(orderID),
		entry.setSupplierID(supplierID),
		entry.setStoreID(storeID),
	); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items are required")
	}

	total := kernel.ZeroMoney()
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		total = total.Add(item.Total())
	}

	entry.status = Pending
	entry.originalTotal = total
	entry.billableAmount = total
	return entry, nil
}

// RestoreSupplierStatus rehydrates a ledger entry from persistence.
func RestoreSupplierStatus(
	orderID kernel.UUID, supplierID kernel.UUID, storeID kernel.UUID,
	status Status, basketSlot *int, readyAt *time.Time,
	pickedUp bool, pickedUpAt *time.Time, pickedUpBy *kernel.UUID,
	unavailableSKUs []string, originalTotal kernel.Money, billableAmount kernel.Money,
) (*SupplierStatus, error) {
	entry := &SupplierStatus{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		entry.setOrderID(orderID),
		entry.setSupplierID(supplierID),
		entry.setStoreID(storeID),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	entry.status = status
	entry.basketSlot = basketSlot
	entry.readyAt = readyAt
	entry.pickedUp = pickedUp
	entry.pickedUpAt = pickedUpAt
	entry.pickedUpBy = pickedUpBy
	entry.unavailableSKUs = unavailableSKUs
	entry.originalTotal = originalTotal
	entry.billableAmount = billableAmount
	return entry, nil
}

// OrderID returns the order the entry belongs to.
func (s *SupplierStatus) OrderID() kernel.UUID {
	return s.orderID
}

// SupplierID returns the supplier the entry tracks.
func (s *SupplierStatus) SupplierID() kernel.UUID {
	return s.supplierID
}

// StoreID returns the store the order was placed in.
func (s *SupplierStatus) StoreID() kernel.UUID {
	return s.storeID
}

// Status returns the supplier's preparation state.
func (s *SupplierStatus) Status() Status {
	return s.status
}

// BasketSlot returns the occupied basket slot number, or nil when the
// supplier has no slot (not ready yet, cancelled, or no slot was free).
func (s *SupplierStatus) BasketSlot() *int {
	return s.basketSlot
}

// ReadyAt returns when the supplier marked ready, or nil.
func (s *SupplierStatus) ReadyAt() *time.Time {
	return s.readyAt
}

// IsPickedUp reports whether the supplier's basket has been collected.
func (s *SupplierStatus) IsPickedUp() bool {
	return s.pickedUp
}

// PickedUpAt returns when the basket was collected, or nil.
func (s *SupplierStatus) PickedUpAt() *time.Time {
	return s.pickedUpAt
}

// PickedUpBy returns the staff member that collected the basket, or nil.
func (s *SupplierStatus) PickedUpBy() *kernel.UUID {
	return s.pickedUpBy
}

// UnavailableSKUs returns the supplier's unavailable product SKUs in the
// order they appear in the supplier's item list.
func (s *SupplierStatus) UnavailableSKUs() []string {
	return append([]string(nil), s.unavailableSKUs...)
}

// OriginalTotal returns the total of every line assigned to the supplier.
func (s *SupplierStatus) OriginalTotal() kernel.Money {
	return s.originalTotal
}

// BillableAmount returns the amount the supplier will be paid for this order.
func (s *SupplierStatus) BillableAmount() kernel.Money {
	return s.billableAmount
}

// IsActive reports whether the supplier still participates in the order.
func (s *SupplierStatus) IsActive() bool {
	return s.status.IsActive()
}

// IsEqual reports whether both entries identify the same (order, supplier)
// pair.
func (s *SupplierStatus) IsEqual(other *SupplierStatus) bool {
	return s.orderID.IsEqual(other.orderID) && s.supplierID.IsEqual(other.supplierID)
}

// MarkReady commits the supplier: their available items are prepared and
// staged in the given basket slot (nil when no slot could be assigned).
// Valid from Pending and Partial; the billable amount is frozen as computed
// from the unavailability record so far.
func (s *SupplierStatus) MarkReady(basketSlot *int, at time.Time) error {
	status, err := s.status.MarkReady()
	if err != nil {
		return err
	}

	s.status = status
	s.basketSlot = basketSlot
	readyAt := at.UTC()
	s.readyAt = &readyAt
	return nil
}

// ApplyUnavailability recomputes the entry from the order's unavailability
// record: items is the supplier's full assigned line list, and every line
// the record marks unavailable for this supplier is deducted from the
// billable amount.
//
// Some lines unavailable moves the entry to Partial; every line unavailable
// moves it to Cancelled with a billable amount of zero. Ready entries reject
// with ErrAlreadyCommitted, Cancelled entries with ErrInvalidStatusTransition.
func (s *SupplierStatus) ApplyUnavailability(items []order.LineItem, record *Unavailability) error {
	if err := s.status.ValidateCanRecordUnavailability(); err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return err
	}
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items are required")
	}

	unavailableSKUs := make([]string, 0, len(items))
	unavailableTotal := kernel.ZeroMoney()
	for _, item := range items {
		if !record.IsUnavailable(item.SKU(), s.supplierID) {
			continue
		}
		unavailableSKUs = append(unavailableSKUs, item.SKU())
		unavailableTotal = unavailableTotal.Add(item.Total())
	}

	billable, err := s.originalTotal.Sub(unavailableTotal)
	if err != nil {
		return err
	}

	s.unavailableSKUs = unavailableSKUs
	switch {
	case len(unavailableSKUs) == len(items):
		s.status = Cancelled
		s.billableAmount = kernel.ZeroMoney()
	case len(unavailableSKUs) > 0:
		s.status = Partial
		s.billableAmount = billable
	default:
		s.billableAmount = billable
	}
	return nil
}

// MarkPickedUp records that staff collected the supplier's basket. Only a
// Ready entry can be picked up, and only once; the basket slot is freed by
// the caller releasing it from the store's slot pool.
func (s *SupplierStatus) MarkPickedUp(by kernel.UUID, at time.Time) error {
	if s.pickedUp {
		return ErrBasketAlreadyPickedUp
	}
	if s.status != Ready {
		return fmt.Errorf("%w: %s basket cannot be picked up", ErrInvalidStatusTransition, s.status.String())
	}
	if err := by.Validate(); err != nil {
		return err
	}

	s.pickedUp = true
	pickedUpAt := at.UTC()
	s.pickedUpAt = &pickedUpAt
	s.pickedUpBy = &by
	s.basketSlot = nil
	return nil
}

// Validate ensures the entry was created through a constructor.
func (s *SupplierStatus) Validate() error {
	return s.guard.Validate(ErrSupplierStatusIsNotConstructed)
}

func (s *SupplierStatus) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	s.orderID = orderID
	return nil
}

func (s *SupplierStatus) setSupplierID(supplierID kernel.UUID) error {
	if err := supplierID.Validate(); err != nil {
		return err
	}
	s.supplierID = supplierID
	return nil
}

func (s *SupplierStatus) setStoreID(storeID kernel.UUID) error {
	if err := storeID.Validate(); err != nil {
		return err
	}
	s.storeID = storeID
	return nil
}
