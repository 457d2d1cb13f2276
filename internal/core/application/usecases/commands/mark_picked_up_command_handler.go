package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locks"
)

// MarkPickedUpResult reports the outcome of a basket pickup.
type MarkPickedUpResult struct {
	// FreedSlot is the basket slot released by the pickup, nil when the
	// basket never had one.
	FreedSlot *int

	// AllPickedUp reports whether every ready supplier's basket has now been
	// collected and the order can go out.
	AllPickedUp bool

	// PickedUp and Ready count the collected baskets against the committed
	// suppliers, for the staff terminal's progress display.
	PickedUp int
	Ready    int
}

// MarkPickedUpCommandHandler handles basket pickups by store staff.
// Records the pickup on the supplier's ledger entry and frees the basket
// slot for the next ready supplier.
type MarkPickedUpCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	locker     *locks.KeyedMutex
	aggregator services.ReadinessAggregator
	effects    sideEffects
}

// NewMarkPickedUpCommandHandler creates a handler for basket pickups.
func NewMarkPickedUpCommandHandler(
	uowFactory FulfillmentUoWFactory,
	locker *locks.KeyedMutex,
	notifier ports.Notifier,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) MarkPickedUpCommandHandler {
	return MarkPickedUpCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		aggregator: services.NewReadinessAggregator(),
		effects:    newSideEffects(notifier, publisher, logger),
	}
}

// Handle processes the pickup.
//
// Returns fulfillment.ErrBasketAlreadyPickedUp on a second pickup and
// fulfillment.ErrInvalidStatusTransition when the supplier is not ready.
func (h MarkPickedUpCommandHandler) Handle(ctx context.Context, cmd MarkPickedUpCommand) (MarkPickedUpResult, error) {
	if err := cmd.Validate(); err != nil {
		return MarkPickedUpResult{}, err
	}

	unlockOrder := h.locker.Lock(orderLockKey(cmd.OrderID()))
	defer unlockOrder()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return MarkPickedUpResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ledgerRepo := uow.FulfillmentRepository()
	entry, err := ledgerRepo.GetSupplierStatus(ctx, cmd.OrderID(), cmd.SupplierID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return MarkPickedUpResult{}, fulfillment.ErrSupplierNotAssigned
	}
	if err != nil {
		return MarkPickedUpResult{}, err
	}

	freedSlot := entry.BasketSlot()
	if err = entry.MarkPickedUp(cmd.StaffID(), time.Now()); err != nil {
		return MarkPickedUpResult{}, err
	}
	if err = ledgerRepo.UpdateSupplierStatus(ctx, entry); err != nil {
		return MarkPickedUpResult{}, err
	}

	if freedSlot != nil {
		unlockStore := h.locker.Lock(storeLockKey(entry.StoreID()))
		defer unlockStore()

		poolRepo := uow.SlotPoolRepository()
		pool, poolErr := poolRepo.Get(ctx, entry.StoreID())
		if poolErr != nil {
			return MarkPickedUpResult{}, poolErr
		}
		pool.Release(*freedSlot)
		if poolErr = poolRepo.Save(ctx, pool); poolErr != nil {
			return MarkPickedUpResult{}, poolErr
		}
	}

	event := ports.NewSupplierEvent(cmd.OrderID(), cmd.SupplierID(), ports.EventBasketPickedUp, nil)
	if err = uow.OrderEventRepository().Add(ctx, event); err != nil {
		return MarkPickedUpResult{}, err
	}

	entries, err := ledgerRepo.GetAllForOrder(ctx, cmd.OrderID())
	if err != nil {
		return MarkPickedUpResult{}, err
	}
	for i, stored := range entries {
		if stored.SupplierID().IsEqual(cmd.SupplierID()) {
			entries[i] = entry
		}
	}
	report, err := h.aggregator.Aggregate(entries)
	if err != nil {
		return MarkPickedUpResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return MarkPickedUpResult{}, err
	}

	h.effects.publish(ctx, event)

	return MarkPickedUpResult{
		FreedSlot:   freedSlot,
		AllPickedUp: report.AllBasketsPickedUp(),
		PickedUp:    report.PickedUp,
		Ready:       report.Ready,
	}, nil
}
