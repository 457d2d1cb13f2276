package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReadyForPickupCommandIsNotConstructed = errors.New(
	"ReadyForPickupCommand must be created via NewReadyForPickupCommand constructor",
)

// ReadyForPickupCommand represents store staff handing the assembled order
// over for delivery.
type ReadyForPickupCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReadyForPickupCommand creates a command for the handover.
func NewReadyForPickupCommand(orderID kernel.UUID) (ReadyForPickupCommand, error) {
	command := ReadyForPickupCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return ReadyForPickupCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ReadyForPickupCommand) Validate() error {
	return c.guard.Validate(ErrReadyForPickupCommandIsNotConstructed)
}

// OrderID returns the order to hand over.
func (c ReadyForPickupCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ReadyForPickupCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
