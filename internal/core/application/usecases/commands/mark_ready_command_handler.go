package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locks"
)

// MarkReadyResult reports the outcome of a supplier's ready signal.
type MarkReadyResult struct {
	// BasketSlot is the slot the supplier's basket was staged in, nil when
	// every slot was taken and no specific slot was requested.
	BasketSlot *int

	// OrderReady reports whether this signal completed the preparation:
	// every active supplier is now ready. The order itself stays Preparing
	// until staff collect the baskets and hand the order over.
	OrderReady bool
}

// MarkReadyCommandHandler handles a supplier's ready signal.
//
// Occupies a basket slot, commits the supplier's ledger entry, and moves
// the order to Preparing on the first ready signal. Store staff are
// notified of every staged basket, and again when the last active supplier
// commits. The order-level Ready transition belongs to the staff handover
// command, which also requires every basket to be picked up.
type MarkReadyCommandHandler struct {
	uowFactory UoWFactory
	locker     *locks.KeyedMutex
	aggregator services.ReadinessAggregator
	effects    sideEffects
}

// NewMarkReadyCommandHandler creates a handler for supplier ready signals.
func NewMarkReadyCommandHandler(
	uowFactory UoWFactory,
	locker *locks.KeyedMutex,
	notifier ports.Notifier,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) MarkReadyCommandHandler {
	return MarkReadyCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		aggregator: services.NewReadinessAggregator(),
		effects:    newSideEffects(notifier, publisher, logger),
	}
}

// Handle processes the ready signal.
//
// Returns fulfillment.ErrSupplierNotAssigned when the supplier has no ledger
// entry for the order, basket.SlotOccupiedError when the requested slot is
// taken, and fulfillment.ErrInvalidStatusTransition when the supplier
// already committed or dropped out.
func (h MarkReadyCommandHandler) Handle(ctx context.Context, cmd MarkReadyCommand) (MarkReadyResult, error) {
	if err := cmd.Validate(); err != nil {
		return MarkReadyResult{}, err
	}

	unlockOrder := h.locker.Lock(orderLockKey(cmd.OrderID()))
	defer unlockOrder()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return MarkReadyResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return MarkReadyResult{}, err
	}

	ledgerRepo := uow.FulfillmentRepository()
	entry, err := ledgerRepo.GetSupplierStatus(ctx, cmd.OrderID(), cmd.SupplierID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return MarkReadyResult{}, fulfillment.ErrSupplierNotAssigned
	}
	if err != nil {
		return MarkReadyResult{}, err
	}

	unlockStore := h.locker.Lock(storeLockKey(entry.StoreID()))
	defer unlockStore()

	poolRepo := uow.SlotPoolRepository()
	pool, err := poolRepo.Get(ctx, entry.StoreID())
	if err != nil {
		return MarkReadyResult{}, err
	}

	slot, err := pool.Occupy(cmd.RequestedSlot(), cmd.OrderID(), cmd.SupplierID())
	if err != nil {
		return MarkReadyResult{}, err
	}

	if err = entry.MarkReady(slot, time.Now()); err != nil {
		return MarkReadyResult{}, err
	}

	events := []ports.OrderEvent{ports.NewSupplierEvent(
		cmd.OrderID(), cmd.SupplierID(), ports.EventSupplierReady, entry.UnavailableSKUs())}

	if aggregate.Status() == order.Accepted {
		if err = aggregate.StartPreparing(); err != nil {
			return MarkReadyResult{}, err
		}
		events = append(events, ports.NewOrderEvent(aggregate.ID(), ports.EventOrderPreparing))
	}

	if err = ledgerRepo.UpdateSupplierStatus(ctx, entry); err != nil {
		return MarkReadyResult{}, err
	}
	if err = poolRepo.Save(ctx, pool); err != nil {
		return MarkReadyResult{}, err
	}

	report, err := h.aggregateWithEntry(ctx, ledgerRepo, entry)
	if err != nil {
		return MarkReadyResult{}, err
	}

	orderReady := report.AllSuppliersReady()

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return MarkReadyResult{}, err
	}

	eventRepo := uow.OrderEventRepository()
	for _, event := range events {
		if err = eventRepo.Add(ctx, event); err != nil {
			return MarkReadyResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return MarkReadyResult{}, err
	}

	supplierID := cmd.SupplierID()
	h.effects.notifyStaff(ctx, entry.StoreID(), ports.Notification{
		Kind:       ports.NotificationSupplierReady,
		OrderID:    aggregate.ID(),
		SupplierID: &supplierID,
	})
	if orderReady {
		h.effects.notifyStaff(ctx, entry.StoreID(), ports.Notification{
			Kind:    ports.NotificationOrderReady,
			OrderID: aggregate.ID(),
		})
	}
	h.effects.publish(ctx, events...)

	return MarkReadyResult{BasketSlot: entry.BasketSlot(), OrderReady: orderReady}, nil
}

// aggregateWithEntry folds the order's ledger, substituting the locally
// mutated entry for its stored copy.
func (h MarkReadyCommandHandler) aggregateWithEntry(
	ctx context.Context, repo ports.FulfillmentRepository, updated *fulfillment.SupplierStatus,
) (services.ReadinessReport, error) {
	entries, err := repo.GetAllForOrder(ctx, updated.OrderID())
	if err != nil {
		return services.ReadinessReport{}, err
	}

	for i, entry := range entries {
		if entry.SupplierID().IsEqual(updated.SupplierID()) {
			entries[i] = updated
		}
	}
	return h.aggregator.Aggregate(entries)
}
