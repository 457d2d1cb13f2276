package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/locks"
)

// AcceptOrderCommandHandler handles order acceptance by store staff.
// Moves the order from Created to Accepted and records the event.
type AcceptOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	locker     *locks.KeyedMutex
	effects    sideEffects
}

// NewAcceptOrderCommandHandler creates a handler for order acceptance.
func NewAcceptOrderCommandHandler(
	uowFactory OrderUoWFactory,
	locker *locks.KeyedMutex,
	notifier ports.Notifier,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		effects:    newSideEffects(notifier, publisher, logger),
	}
}

// Handle processes the acceptance command.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
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

	if err = aggregate.Accept(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	event := ports.NewOrderEvent(aggregate.ID(), ports.EventOrderAccepted)
	if err = uow.OrderEventRepository().Add(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.publish(ctx, event)
	return nil
}
