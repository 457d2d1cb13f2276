package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locks"
)

// Escalation names the backup supplier a product was dispatched to.
type Escalation struct {
	SKU        string
	SupplierID kernel.UUID
}

// MarkProductUnavailableResult reports the outcome of an unavailability
// declaration.
type MarkProductUnavailableResult struct {
	// SupplierStatus is the declaring supplier's status after the update.
	SupplierStatus fulfillment.Status

	// BillableAmount is the supplier's payout after the deduction.
	BillableAmount kernel.Money

	// Escalations lists the backup suppliers the product was dispatched to.
	Escalations []Escalation

	// ExhaustedSKUs lists products whose supplier ladder ran out. Store
	// staff were notified about them.
	ExhaustedSKUs []string

	// OrderCancelled reports whether this declaration dropped the last
	// active supplier and cancelled the whole order.
	OrderCancelled bool
}

// MarkProductUnavailableCommandHandler handles a supplier's unavailability
// declaration.
//
// Appends the declaration to the order's add-only unavailability record,
// recomputes the supplier's status and billable amount, escalates the
// product to the next supplier on its ladder, and folds the ledger to
// detect order-level cancellation.
type MarkProductUnavailableCommandHandler struct {
	uowFactory UoWFactory
	catalog    ports.CatalogReader
	locker     *locks.KeyedMutex
	engine     services.EscalationEngine
	aggregator services.ReadinessAggregator
	effects    sideEffects
}

// NewMarkProductUnavailableCommandHandler creates a handler for
// unavailability declarations.
func NewMarkProductUnavailableCommandHandler(
	uowFactory UoWFactory,
	catalog ports.CatalogReader,
	locker *locks.KeyedMutex,
	notifier ports.Notifier,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) MarkProductUnavailableCommandHandler {
	return MarkProductUnavailableCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		locker:     locker,
		engine:     services.NewEscalationEngine(),
		aggregator: services.NewReadinessAggregator(),
		effects:    newSideEffects(notifier, publisher, logger),
	}
}

// Handle processes the unavailability declaration.
//
// A declaration that leaves the supplier Partial escalates the declared
// product one rung down its ladder. A declaration that cancels the supplier
// re-dispatches every product of the supplier's assignment, each down its
// own ladder, so nothing the supplier was holding is left stranded.
// Escalation failures never fail the declaration itself.
//
// Returns fulfillment.ErrProductNotAssigned when the product is not among
// the supplier's assigned lines, fulfillment.ErrAlreadyCommitted when the
// supplier already went ready.
func (h MarkProductUnavailableCommandHandler) Handle(
	ctx context.Context, cmd MarkProductUnavailableCommand,
) (MarkProductUnavailableResult, error) {
	if err := cmd.Validate(); err != nil {
		return MarkProductUnavailableResult{}, err
	}

	unlock := h.locker.Lock(orderLockKey(cmd.OrderID()))
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return MarkProductUnavailableResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return MarkProductUnavailableResult{}, err
	}

	items := aggregate.ItemsFor(cmd.SupplierID())
	if len(items) == 0 {
		return MarkProductUnavailableResult{}, fulfillment.ErrSupplierNotAssigned
	}
	if !containsSKU(items, cmd.SKU()) {
		return MarkProductUnavailableResult{}, fulfillment.ErrProductNotAssigned
	}

	ledgerRepo := uow.FulfillmentRepository()
	entry, err := ledgerRepo.GetSupplierStatus(ctx, cmd.OrderID(), cmd.SupplierID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return MarkProductUnavailableResult{}, fulfillment.ErrSupplierNotAssigned
	}
	if err != nil {
		return MarkProductUnavailableResult{}, err
	}

	record, err := ledgerRepo.GetUnavailability(ctx, cmd.OrderID())
	if err != nil {
		return MarkProductUnavailableResult{}, err
	}

	record.Add(cmd.SKU(), cmd.SupplierID())
	if err = entry.ApplyUnavailability(items, record); err != nil {
		return MarkProductUnavailableResult{}, err
	}

	if err = ledgerRepo.SaveUnavailability(ctx, record); err != nil {
		return MarkProductUnavailableResult{}, err
	}
	if err = ledgerRepo.UpdateSupplierStatus(ctx, entry); err != nil {
		return MarkProductUnavailableResult{}, err
	}

	events := make([]ports.OrderEvent, 0, 4)
	switch entry.Status() {
	case fulfillment.Cancelled:
		events = append(events, ports.NewSupplierEvent(
			cmd.OrderID(), cmd.SupplierID(), ports.EventSupplierCancelled, entry.UnavailableSKUs()))
	default:
		events = append(events, ports.NewSupplierEvent(
			cmd.OrderID(), cmd.SupplierID(), ports.EventSupplierPartial, []string{cmd.SKU()}))
	}

	result := MarkProductUnavailableResult{
		SupplierStatus: entry.Status(),
		BillableAmount: entry.BillableAmount(),
	}

	if entry.Status() == fulfillment.Cancelled {
		escalations, exhaustedSKUs, err := h.cascade(ctx, aggregate.StoreID(), items, cmd.SupplierID())
		if err != nil {
			return MarkProductUnavailableResult{}, err
		}
		result.Escalations = escalations
		result.ExhaustedSKUs = exhaustedSKUs
	} else {
		escalation, exhausted, err := h.escalate(ctx, aggregate.StoreID(), cmd.SKU(), cmd.SupplierID())
		if err != nil {
			return MarkProductUnavailableResult{}, err
		}
		if escalation != nil {
			result.Escalations = append(result.Escalations, *escalation)
		}
		if exhausted {
			result.ExhaustedSKUs = append(result.ExhaustedSKUs, cmd.SKU())
		}
	}
	for _, escalation := range result.Escalations {
		events = append(events, ports.NewSupplierEvent(
			cmd.OrderID(), escalation.SupplierID, ports.EventSupplierEscalated, []string{escalation.SKU}))
	}

	report, err := h.aggregateWithEntry(ctx, ledgerRepo, entry)
	if err != nil {
		return MarkProductUnavailableResult{}, err
	}

	if report.AllSuppliersCancelled() {
		if err = aggregate.Cancel(); err != nil {
			return MarkProductUnavailableResult{}, err
		}
		result.OrderCancelled = true
		events = append(events, ports.NewOrderEvent(aggregate.ID(), ports.EventOrderCancelled))
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return MarkProductUnavailableResult{}, err
	}

	eventRepo := uow.OrderEventRepository()
	for _, event := range events {
		if err = eventRepo.Add(ctx, event); err != nil {
			return MarkProductUnavailableResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return MarkProductUnavailableResult{}, err
	}

	for _, escalation := range result.Escalations {
		h.effects.notifySupplier(ctx, escalation.SupplierID, ports.Notification{
			Kind:    ports.NotificationDispatch,
			OrderID: cmd.OrderID(),
			SKUs:    []string{escalation.SKU},
		})
	}
	if len(result.ExhaustedSKUs) > 0 {
		h.effects.notifyStaff(ctx, aggregate.StoreID(), ports.Notification{
			Kind:    ports.NotificationNoSupplier,
			OrderID: cmd.OrderID(),
			SKUs:    result.ExhaustedSKUs,
		})
	}
	if result.OrderCancelled {
		h.effects.notifyStaff(ctx, aggregate.StoreID(), ports.Notification{
			Kind:    ports.NotificationOrderCancelled,
			OrderID: cmd.OrderID(),
		})
	}
	h.effects.publish(ctx, events...)

	return result, nil
}

// escalate walks the product's supplier ladder one rung down. A missing or
// inactive rung exhausts the product; a supplier that fell off the ladder
// since intake exhausts it too.
func (h MarkProductUnavailableCommandHandler) escalate(
	ctx context.Context, storeID kernel.UUID, sku string, current kernel.UUID,
) (*Escalation, bool, error) {
	ladder, err := h.catalog.AssignmentsFor(ctx, storeID, sku)
	if err != nil {
		return nil, false, err
	}

	next, err := h.engine.NextSupplier(sku, ladder, current)
	if errors.Is(err, services.ErrNoSupplierAvailable) || errors.Is(err, fulfillment.ErrProductNotAssigned) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &Escalation{SKU: sku, SupplierID: next.SupplierID()}, false, nil
}

// cascade re-dispatches every product of a cancelled supplier's assignment,
// each one rung down its own ladder. Products whose ladder ran out come
// back as exhausted.
func (h MarkProductUnavailableCommandHandler) cascade(
	ctx context.Context, storeID kernel.UUID, items []order.LineItem, cancelled kernel.UUID,
) ([]Escalation, []string, error) {
	skus := make([]string, 0, len(items))
	ladders := make(map[string]catalog.Assignments, len(items))
	for _, item := range items {
		ladder, err := h.catalog.AssignmentsFor(ctx, storeID, item.SKU())
		if err != nil {
			return nil, nil, err
		}
		skus = append(skus, item.SKU())
		ladders[item.SKU()] = ladder
	}

	dispatches, exhausted := h.engine.CheckAndDispatchCategory(skus, ladders, cancelled)

	escalations := make([]Escalation, 0, len(dispatches))
	for _, dispatch := range dispatches {
		escalations = append(escalations, Escalation{
			SKU:        dispatch.SKU,
			SupplierID: dispatch.Target.SupplierID(),
		})
	}
	return escalations, exhausted, nil
}

func (h MarkProductUnavailableCommandHandler) aggregateWithEntry(
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

func containsSKU(items []order.LineItem, sku string) bool {
	for _, item := range items {
		if item.SKU() == sku {
			return true
		}
	}
	return false
}
