package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created
// through the NewLineItem constructor.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is an immutable value object describing one product line of an
// order: the marketplace SKU, display name, unit price, quantity, and the
// supplier the line was assigned to at intake (the priority-1 supplier for
// the product in the order's store).
//
// The item list of an order never changes after creation; escalation to a
// backup supplier is a notification concern and does not rewrite the
// assignment recorded here.
type LineItem struct {
	sku        string
	name       string
	unitPrice  kernel.Money
	quantity   int
	supplierID kernel.UUID

	guard kernel.ConstructorGuard
}

// NewLineItem creates a validated line item.
//
// Validation rules:
//   - sku and name must not be empty
//   - quantity must be positive
//   - supplierID must be a constructed UUID
func NewLineItem(sku, name string, unitPrice kernel.Money, quantity int, supplierID kernel.UUID) (LineItem, error) {
	item := LineItem{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setSKU(sku),
		item.setName(name),
		item.setQuantity(quantity),
		item.setSupplierID(supplierID),
	); err != nil {
		return LineItem{}, err
	}

	item.unitPrice = unitPrice
	return item, nil
}

// SKU returns the marketplace product SKU.
func (i LineItem) SKU() string {
	return i.sku
}

// Name returns the product display name.
func (i LineItem) Name() string {
	return i.name
}

// UnitPrice returns the price of a single unit.
func (i LineItem) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Quantity returns the ordered quantity.
func (i LineItem) Quantity() int {
	return i.quantity
}

// SupplierID returns the supplier the line was assigned to at intake.
func (i LineItem) SupplierID() kernel.UUID {
	return i.supplierID
}

// Total returns unit price multiplied by quantity.
func (i LineItem) Total() kernel.Money {
	return i.unitPrice.MulQuantity(i.quantity)
}

// Validate ensures the item was created through NewLineItem.
func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

func (i *LineItem) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku is required")
	}
	i.sku = sku
	return nil
}

func (i *LineItem) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name is required")
	}
	i.name = name
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}
	i.quantity = quantity
	return nil
}

func (i *LineItem) setSupplierID(supplierID kernel.UUID) error {
	if err := supplierID.Validate(); err != nil {
		return err
	}
	i.supplierID = supplierID
	return nil
}
