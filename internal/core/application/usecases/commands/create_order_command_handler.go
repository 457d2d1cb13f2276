package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderAlreadyExists is returned when the marketplace order code was
	// already ingested. Webhook retries hit this path.
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrNoFulfillableItems is returned when no item line of the order has an
	// active priority-1 supplier assignment.
	ErrNoFulfillableItems = errors.New("no item has an available supplier")
)

// CreateOrderResult reports the outcome of order intake.
type CreateOrderResult struct {
	// SkippedSKUs lists item lines dropped because no active priority-1
	// assignment exists for the product. Store staff are notified about them.
	SkippedSKUs []string
}

// CreateOrderCommandHandler handles the intake of marketplace orders.
// Resolves each item line to its priority-1 supplier, creates the order with
// one ledger entry per involved supplier, and dispatches notifications to
// the supplier terminals after commit.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	catalog    ports.CatalogReader
	effects    sideEffects
}

// NewCreateOrderCommandHandler creates a handler for order intake.
func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	catalog ports.CatalogReader,
	notifier ports.Notifier,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		effects:    newSideEffects(notifier, publisher, logger),
	}
}

// Handle processes the order intake command.
//
// Item lines without an active priority-1 assignment are skipped, not
// rejected: the rest of the order still goes out and staff resolve the
// skipped products by hand. An order whose every line is skipped fails with
// ErrNoFulfillableItems.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	items, skipped, err := h.resolveItems(ctx, cmd)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if len(items) == 0 {
		return CreateOrderResult{}, ErrNoFulfillableItems
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	if cmd.ExternalCode() != "" {
		if _, getErr := orderRepo.GetByExternalCode(ctx, cmd.ExternalCode()); getErr == nil {
			return CreateOrderResult{}, ErrOrderAlreadyExists
		} else if !errors.Is(getErr, errs.ErrObjectNotFound) {
			return CreateOrderResult{}, getErr
		}
	}

	newOrder, err := order.NewOrder(cmd.OrderID(), cmd.StoreID(), cmd.ExternalCode(), items)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return CreateOrderResult{}, err
	}

	events := []ports.OrderEvent{ports.NewOrderEvent(newOrder.ID(), ports.EventOrderCreated)}

	ledgerRepo := uow.FulfillmentRepository()
	suppliers := newOrder.SupplierIDs()
	for _, supplierID := range suppliers {
		entry, entryErr := fulfillment.NewSupplierStatus(newOrder.ID(), supplierID, newOrder.StoreID(), newOrder.ItemsFor(supplierID))
		if entryErr != nil {
			return CreateOrderResult{}, entryErr
		}
		if entryErr = ledgerRepo.AddSupplierStatus(ctx, entry); entryErr != nil {
			return CreateOrderResult{}, entryErr
		}
		events = append(events, ports.NewSupplierEvent(
			newOrder.ID(), supplierID, ports.EventSupplierDispatched, itemSKUs(newOrder.ItemsFor(supplierID))))
	}

	eventRepo := uow.OrderEventRepository()
	for _, event := range events {
		if err = eventRepo.Add(ctx, event); err != nil {
			return CreateOrderResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	for _, supplierID := range suppliers {
		h.effects.notifySupplier(ctx, supplierID, ports.Notification{
			Kind:    ports.NotificationDispatch,
			OrderID: newOrder.ID(),
			SKUs:    itemSKUs(newOrder.ItemsFor(supplierID)),
		})
	}
	if len(skipped) > 0 {
		h.effects.notifyStaff(ctx, newOrder.StoreID(), ports.Notification{
			Kind:    ports.NotificationNoSupplier,
			OrderID: newOrder.ID(),
			SKUs:    skipped,
		})
	}
	h.effects.publish(ctx, events...)

	return CreateOrderResult{SkippedSKUs: skipped}, nil
}

// resolveItems maps raw item lines to validated line items assigned to their
// priority-1 suppliers.
func (h CreateOrderCommandHandler) resolveItems(
	ctx context.Context, cmd CreateOrderCommand,
) ([]order.LineItem, []string, error) {
	var (
		items   []order.LineItem
		skipped []string
	)

	for _, raw := range cmd.Items() {
		ladder, err := h.catalog.AssignmentsFor(ctx, cmd.StoreID(), raw.SKU)
		if err != nil {
			return nil, nil, err
		}

		primary, ok := ladder.Primary()
		if !ok {
			skipped = append(skipped, raw.SKU)
			continue
		}

		price, err := kernel.NewMoneyFromCents(raw.PriceCents)
		if err != nil {
			return nil, nil, err
		}
		item, err := order.NewLineItem(raw.SKU, raw.Name, price, raw.Quantity, primary.SupplierID())
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}

	return items, skipped, nil
}

func itemSKUs(items []order.LineItem) []string {
	skus := make([]string, 0, len(items))
	for _, item := range items {
		skus = append(skus, item.SKU())
	}
	return skus
}
