package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkProductUnavailableCommandIsNotConstructed = errors.New(
	"MarkProductUnavailableCommand must be created via NewMarkProductUnavailableCommand constructor",
)

// MarkProductUnavailableCommand represents a supplier declaring one of
// their assigned products unavailable for an order.
type MarkProductUnavailableCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	supplierID kernel.UUID
	sku        string

	guard guard.ConstructorGuard
}

// NewMarkProductUnavailableCommand creates a command for an unavailability
// declaration.
func NewMarkProductUnavailableCommand(
	orderID kernel.UUID, supplierID kernel.UUID, sku string,
) (MarkProductUnavailableCommand, error) {
	command := MarkProductUnavailableCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setSupplierID(supplierID),
		command.setSKU(sku),
	); err != nil {
		return MarkProductUnavailableCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkProductUnavailableCommand) Validate() error {
	return c.guard.Validate(ErrMarkProductUnavailableCommandIsNotConstructed)
}

// OrderID returns the affected order.
func (c MarkProductUnavailableCommand) OrderID() kernel.UUID {
	return c.orderID
}

// SupplierID returns the declaring supplier.
func (c MarkProductUnavailableCommand) SupplierID() kernel.UUID {
	return c.supplierID
}

// SKU returns the unavailable product.
func (c MarkProductUnavailableCommand) SKU() string {
	return c.sku
}

func (c *MarkProductUnavailableCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkProductUnavailableCommand) setSupplierID(supplierID kernel.UUID) error {
	if err := supplierID.Validate(); err != nil {
		return err
	}

	c.supplierID = supplierID
	return nil
}

func (c *MarkProductUnavailableCommand) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku is required")
	}

	c.sku = sku
	return nil
}
