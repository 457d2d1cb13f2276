package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkPickedUpCommandIsNotConstructed = errors.New(
	"MarkPickedUpCommand must be created via NewMarkPickedUpCommand constructor",
)

// MarkPickedUpCommand represents store staff collecting a ready supplier's
// basket from its slot.
type MarkPickedUpCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	supplierID kernel.UUID
	staffID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkPickedUpCommand creates a command for a basket pickup.
func NewMarkPickedUpCommand(orderID, supplierID, staffID kernel.UUID) (MarkPickedUpCommand, error) {
	command := MarkPickedUpCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setSupplierID(supplierID),
		command.setStaffID(staffID),
	); err != nil {
		return MarkPickedUpCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkPickedUpCommand) Validate() error {
	return c.guard.Validate(ErrMarkPickedUpCommandIsNotConstructed)
}

// OrderID returns the order the basket belongs to.
func (c MarkPickedUpCommand) OrderID() kernel.UUID {
	return c.orderID
}

// SupplierID returns the supplier whose basket was collected.
func (c MarkPickedUpCommand) SupplierID() kernel.UUID {
	return c.supplierID
}

// StaffID returns the staff member that collected the basket.
func (c MarkPickedUpCommand) StaffID() kernel.UUID {
	return c.staffID
}

func (c *MarkPickedUpCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkPickedUpCommand) setSupplierID(supplierID kernel.UUID) error {
	if err := supplierID.Validate(); err != nil {
		return err
	}

	c.supplierID = supplierID
	return nil
}

func (c *MarkPickedUpCommand) setStaffID(staffID kernel.UUID) error {
	if err := staffID.Validate(); err != nil {
		return err
	}

	c.staffID = staffID
	return nil
}
