// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// FulfillmentRepoFactory provides access to the supplier ledger repository
	// within a transaction.
	FulfillmentRepoFactory interface {
		FulfillmentRepository() ports.FulfillmentRepository
	}

	// SlotPoolRepoFactory provides access to the basket slot repository within
	// a transaction.
	SlotPoolRepoFactory interface {
		SlotPoolRepository() ports.SlotPoolRepository
	}

	// EventRepoFactory provides access to the order event log within a transaction.
	EventRepoFactory interface {
		OrderEventRepository() ports.OrderEventRepository
	}

	// OrderUoW manages transactions for order-only operations.
	// Used when commands only modify the order aggregate and its event log.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		EventRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// FulfillmentUoW manages transactions over the supplier ledger and basket
	// slots. Used for pickup and reminder operations that never touch the
	// order aggregate.
	FulfillmentUoW interface {
		TxManager
		FulfillmentRepoFactory
		SlotPoolRepoFactory
		EventRepoFactory
	}

	// FulfillmentUoWFactory creates new fulfillment unit of work instances.
	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}

	// UoW manages transactions across the order aggregate, the supplier
	// ledger, and basket slots. Used for commands that coordinate changes
	// between multiple aggregate types.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   ledgerRepo := uow.FulfillmentRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		FulfillmentRepoFactory
		SlotPoolRepoFactory
		EventRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
