package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
)

// RemindPendingSuppliersResult reports how many suppliers were nudged.
type RemindPendingSuppliersResult struct {
	Reminded int
}

// RemindPendingSuppliersCommandHandler handles the periodic reminder sweep.
// Reads Pending and Partial ledger entries older than the threshold and
// sends each supplier a reminder notification. The sweep mutates nothing.
type RemindPendingSuppliersCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	effects    sideEffects
}

// NewRemindPendingSuppliersCommandHandler creates a handler for the sweep.
func NewRemindPendingSuppliersCommandHandler(
	uowFactory FulfillmentUoWFactory,
	notifier ports.Notifier,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) RemindPendingSuppliersCommandHandler {
	return RemindPendingSuppliersCommandHandler{
		uowFactory: uowFactory,
		effects:    newSideEffects(notifier, publisher, logger),
	}
}

// Handle processes the reminder sweep.
func (h RemindPendingSuppliersCommandHandler) Handle(
	ctx context.Context, cmd RemindPendingSuppliersCommand,
) (RemindPendingSuppliersResult, error) {
	if err := cmd.Validate(); err != nil {
		return RemindPendingSuppliersResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RemindPendingSuppliersResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := time.Now().Add(-cmd.OlderThan())
	entries, err := uow.FulfillmentRepository().GetAllPendingBefore(ctx, cutoff)
	if err != nil {
		return RemindPendingSuppliersResult{}, err
	}

	for _, entry := range entries {
		h.effects.notifySupplier(ctx, entry.SupplierID(), ports.Notification{
			Kind:    ports.NotificationReminder,
			OrderID: entry.OrderID(),
		})
	}

	return RemindPendingSuppliersResult{Reminded: len(entries)}, nil
}
