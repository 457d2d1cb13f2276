package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/locks"
)

// ReadyForPickupCommandHandler handles the staff declaration that an
// assembled order is ready for pickup.
//
// This is the only way a Preparing order reaches Ready: every active
// supplier must have committed and every staged basket must have been
// collected first. An incomplete assembly fails with NotAllPickedUpError
// so the staff terminal can show the remaining count.
type ReadyForPickupCommandHandler struct {
	uowFactory UoWFactory
	locker     *locks.KeyedMutex
	aggregator services.ReadinessAggregator
	effects    sideEffects
}

// NewReadyForPickupCommandHandler creates a handler for order handover.
func NewReadyForPickupCommandHandler(
	uowFactory UoWFactory,
	locker *locks.KeyedMutex,
	notifier ports.Notifier,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) ReadyForPickupCommandHandler {
	return ReadyForPickupCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		aggregator: services.NewReadinessAggregator(),
		effects:    newSideEffects(notifier, publisher, logger),
	}
}

// Handle processes the handover command.
func (h ReadyForPickupCommandHandler) Handle(ctx context.Context, cmd ReadyForPickupCommand) error {
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

	entries, err := uow.FulfillmentRepository().GetAllForOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	report, err := h.aggregator.Aggregate(entries)
	if err != nil {
		return err
	}
	if !report.AllSuppliersReady() || !report.AllBasketsPickedUp() {
		return order.NewNotAllPickedUpError(report.PickedUp, report.Active)
	}

	if err = aggregate.MarkReady(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	event := ports.NewOrderEvent(aggregate.ID(), ports.EventOrderReady)
	if err = uow.OrderEventRepository().Add(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.notifyStaff(ctx, aggregate.StoreID(), ports.Notification{
		Kind:    ports.NotificationOrderReady,
		OrderID: aggregate.ID(),
	})
	h.effects.publish(ctx, event)
	return nil
}
