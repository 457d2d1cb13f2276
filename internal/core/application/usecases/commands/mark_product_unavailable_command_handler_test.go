package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/locks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type unavailableFixture struct {
	orderID    kernel.UUID
	storeID    kernel.UUID
	supplierA  kernel.UUID
	supplierB  kernel.UUID
	backup     kernel.UUID
	itemsA     []order.LineItem
	aggregate  *order.Order
	entryA     *fulfillment.SupplierStatus
	entryB     *fulfillment.SupplierStatus
	record     *fulfillment.Unavailability
	reader     *MockCatalogReader
	orderRepo  *MockOrderRepository
	ledgerRepo *MockFulfillmentRepository
	eventRepo  *MockEventRepository
	uow        *MockUoW
	factory    *MockUoWFactory
	notifier   *StubNotifier
	publisher  *StubPublisher
}

// newUnavailableFixture builds a preparing two-supplier order. Supplier A
// holds SKU-1 (5.00) and SKU-2 (10.00) with a backup supplier behind them on
// both ladders.
func newUnavailableFixture(t *testing.T) *unavailableFixture {
	t.Helper()

	f := &unavailableFixture{
		orderID:   kernel.NewUUID(),
		storeID:   kernel.NewUUID(),
		supplierA: kernel.NewUUID(),
		supplierB: kernel.NewUUID(),
		backup:    kernel.NewUUID(),
	}

	f.itemsA = []order.LineItem{
		mustItem(t, "SKU-1", 250, 2, f.supplierA),
		mustItem(t, "SKU-2", 1000, 1, f.supplierA),
	}
	itemsB := []order.LineItem{mustItem(t, "SKU-3", 500, 1, f.supplierB)}

	f.aggregate = mustOrder(t, f.orderID, f.storeID, append(f.itemsA, itemsB...))
	require.NoError(t, f.aggregate.Accept())
	require.NoError(t, f.aggregate.StartPreparing())

	f.entryA = mustEntry(t, f.orderID, f.supplierA, f.storeID, f.itemsA)
	f.entryB = mustEntry(t, f.orderID, f.supplierB, f.storeID, itemsB)

	var err error
	f.record, err = fulfillment.NewUnavailability(f.orderID)
	require.NoError(t, err)

	f.reader = new(MockCatalogReader)
	f.orderRepo = new(MockOrderRepository)
	f.ledgerRepo = new(MockFulfillmentRepository)
	f.eventRepo = new(MockEventRepository)
	f.uow = new(MockUoW)
	f.factory = new(MockUoWFactory)
	f.notifier = new(StubNotifier)
	f.publisher = new(StubPublisher)

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	f.uow.On("OrderRepository").Return(f.orderRepo)
	f.uow.On("FulfillmentRepository").Return(f.ledgerRepo)
	f.uow.On("OrderEventRepository").Return(f.eventRepo)
	return f
}

func (f *unavailableFixture) expectHappyPath(t *testing.T, eventCount int) {
	t.Helper()
	f.orderRepo.On("Get", mock.Anything, f.orderID).Return(f.aggregate, nil).Once()
	f.ledgerRepo.On("GetSupplierStatus", mock.Anything, f.orderID, f.supplierA).Return(f.entryA, nil).Once()
	f.ledgerRepo.On("GetUnavailability", mock.Anything, f.orderID).Return(f.record, nil).Once()
	f.ledgerRepo.On("SaveUnavailability", mock.Anything, f.record).Return(nil).Once()
	f.ledgerRepo.On("UpdateSupplierStatus", mock.Anything, f.entryA).Return(nil).Once()
	f.ledgerRepo.On("GetAllForOrder", mock.Anything, f.orderID).
		Return([]*fulfillment.SupplierStatus{f.entryA, f.entryB}, nil).Once()
	f.orderRepo.On("Update", mock.Anything, f.aggregate).Return(nil).Once()
	f.eventRepo.On("Add", mock.Anything, mock.AnythingOfType("ports.OrderEvent")).Return(nil).Times(eventCount)
	f.uow.On("Commit", mock.Anything).Return(nil).Once()
}

func (f *unavailableFixture) handler() commands.MarkProductUnavailableCommandHandler {
	return commands.NewMarkProductUnavailableCommandHandler(
		f.factory, f.reader, locks.NewKeyedMutex(), f.notifier, f.publisher, discardLogger())
}

func TestMarkProductUnavailableCommandHandler_Handle_PartialEscalates(t *testing.T) {
	ctx := t.Context()
	f := newUnavailableFixture(t)
	f.expectHappyPath(t, 2)

	f.reader.On("AssignmentsFor", mock.Anything, f.storeID, "SKU-1").
		Return(catalog.Assignments{
			mustAssignment(t, f.supplierA, 1, true),
			mustAssignment(t, f.backup, 2, true),
		}, nil).Once()

	cmd, err := commands.NewMarkProductUnavailableCommand(f.orderID, f.supplierA, "SKU-1")
	require.NoError(t, err)

	result, err := f.handler().Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, fulfillment.Partial, result.SupplierStatus)
	assert.Equal(t, "10.00", result.BillableAmount.String())
	require.Len(t, result.Escalations, 1)
	assert.Equal(t, "SKU-1", result.Escalations[0].SKU)
	assert.True(t, result.Escalations[0].SupplierID.IsEqual(f.backup))
	assert.Empty(t, result.ExhaustedSKUs)
	assert.False(t, result.OrderCancelled)

	require.Len(t, f.notifier.Supplier, 1)
	assert.Equal(t, ports.NotificationDispatch, f.notifier.Supplier[0].Kind)
	f.ledgerRepo.AssertExpectations(t)
}

func TestMarkProductUnavailableCommandHandler_Handle_LadderExhausted(t *testing.T) {
	ctx := t.Context()
	f := newUnavailableFixture(t)
	f.expectHappyPath(t, 1)

	f.reader.On("AssignmentsFor", mock.Anything, f.storeID, "SKU-1").
		Return(catalog.Assignments{mustAssignment(t, f.supplierA, 1, true)}, nil).Once()

	cmd, err := commands.NewMarkProductUnavailableCommand(f.orderID, f.supplierA, "SKU-1")
	require.NoError(t, err)

	result, err := f.handler().Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Empty(t, result.Escalations)
	assert.Equal(t, []string{"SKU-1"}, result.ExhaustedSKUs)
	require.Len(t, f.notifier.Staff, 1)
	assert.Equal(t, ports.NotificationNoSupplier, f.notifier.Staff[0].Kind)
}

func TestMarkProductUnavailableCommandHandler_Handle_LastItemCancelsSupplier(t *testing.T) {
	ctx := t.Context()
	f := newUnavailableFixture(t)

	// SKU-1 already declared earlier.
	f.record.Add("SKU-1", f.supplierA)
	require.NoError(t, f.entryA.ApplyUnavailability(f.itemsA, f.record))
	require.Equal(t, fulfillment.Partial, f.entryA.Status())

	f.expectHappyPath(t, 3)
	f.reader.On("AssignmentsFor", mock.Anything, f.storeID, "SKU-1").
		Return(catalog.Assignments{
			mustAssignment(t, f.supplierA, 1, true),
			mustAssignment(t, f.backup, 2, true),
		}, nil).Once()
	f.reader.On("AssignmentsFor", mock.Anything, f.storeID, "SKU-2").
		Return(catalog.Assignments{
			mustAssignment(t, f.supplierA, 1, true),
			mustAssignment(t, f.backup, 2, true),
		}, nil).Once()

	cmd, err := commands.NewMarkProductUnavailableCommand(f.orderID, f.supplierA, "SKU-2")
	require.NoError(t, err)

	result, err := f.handler().Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, fulfillment.Cancelled, result.SupplierStatus)
	assert.True(t, result.BillableAmount.IsZero())

	// Cancellation re-dispatches the whole assignment, not just the
	// declared product.
	skus := make([]string, 0, len(result.Escalations))
	for _, escalation := range result.Escalations {
		skus = append(skus, escalation.SKU)
		assert.True(t, escalation.SupplierID.IsEqual(f.backup))
	}
	assert.ElementsMatch(t, []string{"SKU-1", "SKU-2"}, skus)
	assert.Empty(t, result.ExhaustedSKUs)
	assert.False(t, result.OrderCancelled)
	assert.Len(t, f.notifier.Supplier, 2)
}

func TestMarkProductUnavailableCommandHandler_Handle_CancelledCascadeReportsExhaustedLadder(t *testing.T) {
	ctx := t.Context()
	f := newUnavailableFixture(t)

	// SKU-1 already declared earlier; its ladder ends at supplier A.
	f.record.Add("SKU-1", f.supplierA)
	require.NoError(t, f.entryA.ApplyUnavailability(f.itemsA, f.record))

	f.expectHappyPath(t, 2)
	f.reader.On("AssignmentsFor", mock.Anything, f.storeID, "SKU-1").
		Return(catalog.Assignments{mustAssignment(t, f.supplierA, 1, true)}, nil).Once()
	f.reader.On("AssignmentsFor", mock.Anything, f.storeID, "SKU-2").
		Return(catalog.Assignments{
			mustAssignment(t, f.supplierA, 1, true),
			mustAssignment(t, f.backup, 2, true),
		}, nil).Once()

	cmd, err := commands.NewMarkProductUnavailableCommand(f.orderID, f.supplierA, "SKU-2")
	require.NoError(t, err)

	result, err := f.handler().Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, result.Escalations, 1)
	assert.Equal(t, "SKU-2", result.Escalations[0].SKU)
	assert.Equal(t, []string{"SKU-1"}, result.ExhaustedSKUs)

	require.Len(t, f.notifier.Staff, 1)
	assert.Equal(t, ports.NotificationNoSupplier, f.notifier.Staff[0].Kind)
	assert.Equal(t, []string{"SKU-1"}, f.notifier.Staff[0].SKUs)
}

func TestMarkProductUnavailableCommandHandler_Handle_LastSupplierCancelsOrder(t *testing.T) {
	ctx := t.Context()
	f := newUnavailableFixture(t)

	// Supplier B already dropped out, supplier A holds only SKU-1.
	f.itemsA = f.itemsA[:1]
	f.aggregate = mustOrder(t, f.orderID, f.storeID, append(
		append([]order.LineItem(nil), f.itemsA...),
		mustItem(t, "SKU-3", 500, 1, f.supplierB)))
	require.NoError(t, f.aggregate.Accept())
	require.NoError(t, f.aggregate.StartPreparing())
	f.entryA = mustEntry(t, f.orderID, f.supplierA, f.storeID, f.itemsA)

	recordB, err := fulfillment.NewUnavailability(f.orderID)
	require.NoError(t, err)
	recordB.Add("SKU-3", f.supplierB)
	itemsB := []order.LineItem{mustItem(t, "SKU-3", 500, 1, f.supplierB)}
	f.entryB = mustEntry(t, f.orderID, f.supplierB, f.storeID, itemsB)
	require.NoError(t, f.entryB.ApplyUnavailability(itemsB, recordB))
	require.Equal(t, fulfillment.Cancelled, f.entryB.Status())

	f.expectHappyPath(t, 2)
	f.reader.On("AssignmentsFor", mock.Anything, f.storeID, "SKU-1").
		Return(catalog.Assignments{mustAssignment(t, f.supplierA, 1, true)}, nil).Once()

	cmd, err := commands.NewMarkProductUnavailableCommand(f.orderID, f.supplierA, "SKU-1")
	require.NoError(t, err)

	result, err := f.handler().Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, result.OrderCancelled)
	assert.Equal(t, order.Cancelled, f.aggregate.Status())

	kinds := make([]ports.NotificationKind, 0, len(f.notifier.Staff))
	for _, n := range f.notifier.Staff {
		kinds = append(kinds, n.Kind)
	}
	assert.Contains(t, kinds, ports.NotificationOrderCancelled)
}

func TestMarkProductUnavailableCommandHandler_Handle_ProductNotAssigned(t *testing.T) {
	ctx := t.Context()
	f := newUnavailableFixture(t)

	f.orderRepo.On("Get", mock.Anything, f.orderID).Return(f.aggregate, nil).Once()

	cmd, err := commands.NewMarkProductUnavailableCommand(f.orderID, f.supplierA, "SKU-3")
	require.NoError(t, err)

	_, err = f.handler().Handle(ctx, cmd)
	require.ErrorIs(t, err, fulfillment.ErrProductNotAssigned)
}

func TestMarkProductUnavailableCommandHandler_Handle_AfterReadyRejected(t *testing.T) {
	ctx := t.Context()
	f := newUnavailableFixture(t)

	require.NoError(t, f.entryA.MarkReady(nil, testNow()))

	f.orderRepo.On("Get", mock.Anything, f.orderID).Return(f.aggregate, nil).Once()
	f.ledgerRepo.On("GetSupplierStatus", mock.Anything, f.orderID, f.supplierA).Return(f.entryA, nil).Once()
	f.ledgerRepo.On("GetUnavailability", mock.Anything, f.orderID).Return(f.record, nil).Once()

	cmd, err := commands.NewMarkProductUnavailableCommand(f.orderID, f.supplierA, "SKU-1")
	require.NoError(t, err)

	_, err = f.handler().Handle(ctx, cmd)
	require.ErrorIs(t, err, fulfillment.ErrAlreadyCommitted)
}
