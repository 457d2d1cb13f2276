package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/locks"
)

// CancelOrderCommandHandler handles order cancellation.
// Moves the order to Cancelled from any non-final state and tells every
// still-active supplier to stop preparing.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	locker     *locks.KeyedMutex
	effects    sideEffects
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	locker *locks.KeyedMutex,
	notifier ports.Notifier,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		effects:    newSideEffects(notifier, publisher, logger),
	}
}

// Handle processes the cancellation command.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.locker.Lock(orderLockKey(cmd.OrderID()))
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.Cancel(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	entries, err := uow.FulfillmentRepository().GetAllForOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	event := ports.NewOrderEvent(aggregate.ID(), ports.EventOrderCancelled)
	if err = uow.OrderEventRepository().Add(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsActive() {
			continue
		}
		h.effects.notifySupplier(ctx, entry.SupplierID(), ports.Notification{
			Kind:    ports.NotificationOrderCancelled,
			OrderID: aggregate.ID(),
		})
	}
	h.effects.notifyStaff(ctx, aggregate.StoreID(), ports.Notification{
		Kind:    ports.NotificationOrderCancelled,
		OrderID: aggregate.ID(),
	})
	h.effects.publish(ctx, event)

	return nil
}
