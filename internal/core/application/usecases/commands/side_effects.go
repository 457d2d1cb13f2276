package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// sideEffectTimeout bounds post-commit notification and publishing calls so
// a stuck terminal or broker cannot hold a request hostage.
const sideEffectTimeout = 3 * time.Second

// sideEffects delivers post-commit notifications and event stream publishes.
// Every call is best effort: failures are logged and swallowed, the business
// operation already committed.
type sideEffects struct {
	notifier  ports.Notifier
	publisher ports.OrderEventPublisher
	logger    *slog.Logger
}

func newSideEffects(notifier ports.Notifier, publisher ports.OrderEventPublisher, logger *slog.Logger) sideEffects {
	return sideEffects{
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

func (s sideEffects) notifySupplier(ctx context.Context, supplierID kernel.UUID, notification ports.Notification) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := s.notifier.NotifySupplier(ctx, supplierID, notification); err != nil {
		s.logger.WarnContext(ctx, "supplier notification failed",
			slog.String("supplier_id", supplierID.String()),
			slog.String("kind", string(notification.Kind)),
			slog.Any("error", err))
	}
}

func (s sideEffects) notifyStaff(ctx context.Context, storeID kernel.UUID, notification ports.Notification) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := s.notifier.NotifyStaff(ctx, storeID, notification); err != nil {
		s.logger.WarnContext(ctx, "staff notification failed",
			slog.String("store_id", storeID.String()),
			slog.String("kind", string(notification.Kind)),
			slog.Any("error", err))
	}
}

func (s sideEffects) publish(ctx context.Context, events ...ports.OrderEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	for _, event := range events {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "event publish failed",
				slog.String("order_id", event.OrderID.String()),
				slog.String("type", string(event.Type)),
				slog.Any("error", err))
		}
	}
}
