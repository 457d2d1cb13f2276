package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkReadyCommandIsNotConstructed = errors.New(
	"MarkReadyCommand must be created via NewMarkReadyCommand constructor",
)

// MarkReadyCommand represents a supplier committing to an order: their
// available items are prepared and staged in a basket. The supplier may
// request a specific basket slot; with no request the lowest free slot is
// assigned.
type MarkReadyCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	supplierID    kernel.UUID
	requestedSlot *int

	guard guard.ConstructorGuard
}

// NewMarkReadyCommand creates a command for a supplier's ready signal.
// A requested slot must be positive; nil means no preference.
func NewMarkReadyCommand(orderID kernel.UUID, supplierID kernel.UUID, requestedSlot *int) (MarkReadyCommand, error) {
	command := MarkReadyCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setSupplierID(supplierID),
		command.setRequestedSlot(requestedSlot),
	); err != nil {
		return MarkReadyCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkReadyCommandIsNotConstructed)
}

// OrderID returns the order the supplier is ready for.
func (c MarkReadyCommand) OrderID() kernel.UUID {
	return c.orderID
}

// SupplierID returns the committing supplier.
func (c MarkReadyCommand) SupplierID() kernel.UUID {
	return c.supplierID
}

// RequestedSlot returns the requested basket slot, or nil for no preference.
func (c MarkReadyCommand) RequestedSlot() *int {
	return c.requestedSlot
}

func (c *MarkReadyCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkReadyCommand) setSupplierID(supplierID kernel.UUID) error {
	if err := supplierID.Validate(); err != nil {
		return err
	}

	c.supplierID = supplierID
	return nil
}

func (c *MarkReadyCommand) setRequestedSlot(requestedSlot *int) error {
	if requestedSlot != nil && *requestedSlot < 1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"requested slot is invalid",
			fmt.Errorf("%d is not greater than 0", *requestedSlot),
		)
	}

	c.requestedSlot = requestedSlot
	return nil
}
