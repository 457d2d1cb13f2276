package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one item is required")
)

// OrderItem is the raw marketplace line of an incoming order, before the
// priority-1 supplier is resolved from the store catalog.
type OrderItem struct {
	SKU        string
	Name       string
	PriceCents int64
	Quantity   int
}

// CreateOrderCommand represents a marketplace order arriving for dispatch.
// Carries the target store, the marketplace order code, and the raw item
// lines.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	storeID      kernel.UUID
	externalCode string
	items        []OrderItem

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register an incoming order.
// Validates the identifiers and every item line. The external code may be
// empty for orders created by staff directly.
func NewCreateOrderCommand(
	orderID kernel.UUID, storeID kernel.UUID, externalCode string, items []OrderItem,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setStoreID(storeID),
		orderCommand.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	orderCommand.externalCode = externalCode
	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// StoreID returns the store the order was placed in.
func (c CreateOrderCommand) StoreID() kernel.UUID {
	return c.storeID
}

// ExternalCode returns the marketplace order code, possibly empty.
func (c CreateOrderCommand) ExternalCode() string {
	return c.externalCode
}

// Items returns the raw item lines.
func (c CreateOrderCommand) Items() []OrderItem {
	return append([]OrderItem(nil), c.items...)
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setStoreID(storeID kernel.UUID) error {
	if err := storeID.Validate(); err != nil {
		return err
	}

	c.storeID = storeID
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	for _, item := range items {
		if item.SKU == "" {
			return errs.NewValueIsRequiredError("item sku is required")
		}
		if item.Name == "" {
			return errs.NewValueIsRequiredError("item name is required")
		}
		if item.PriceCents < 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"item price is invalid",
				fmt.Errorf("%d is negative", item.PriceCents),
			)
		}
		if item.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"item quantity is invalid",
				fmt.Errorf("%d is not greater than 0", item.Quantity),
			)
		}
	}

	c.items = append([]OrderItem(nil), items...)
	return nil
}
