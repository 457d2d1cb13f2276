package commands_test

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/basket"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByExternalCode(ctx context.Context, code string) (*order.Order, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockFulfillmentRepository struct{ mock.Mock }

func (m *MockFulfillmentRepository) AddSupplierStatus(ctx context.Context, e *fulfillment.SupplierStatus) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockFulfillmentRepository) UpdateSupplierStatus(ctx context.Context, e *fulfillment.SupplierStatus) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockFulfillmentRepository) GetSupplierStatus(
	ctx context.Context, orderID, supplierID kernel.UUID,
) (*fulfillment.SupplierStatus, error) {
	args := m.Called(ctx, orderID, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.SupplierStatus), args.Error(1)
}

func (m *MockFulfillmentRepository) GetAllForOrder(
	ctx context.Context, orderID kernel.UUID,
) ([]*fulfillment.SupplierStatus, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fulfillment.SupplierStatus), args.Error(1)
}

func (m *MockFulfillmentRepository) GetAllPendingBefore(
	ctx context.Context, cutoff time.Time,
) ([]*fulfillment.SupplierStatus, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fulfillment.SupplierStatus), args.Error(1)
}

func (m *MockFulfillmentRepository) GetUnavailability(
	ctx context.Context, orderID kernel.UUID,
) (*fulfillment.Unavailability, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Unavailability), args.Error(1)
}

func (m *MockFulfillmentRepository) SaveUnavailability(ctx context.Context, r *fulfillment.Unavailability) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockSlotPoolRepository struct{ mock.Mock }

func (m *MockSlotPoolRepository) Get(ctx context.Context, storeID kernel.UUID) (*basket.SlotPool, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*basket.SlotPool), args.Error(1)
}

func (m *MockSlotPoolRepository) Save(ctx context.Context, pool *basket.SlotPool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) Add(ctx context.Context, event ports.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) FulfillmentRepository() ports.FulfillmentRepository {
	args := m.Called()
	return args.Get(0).(ports.FulfillmentRepository)
}

func (m *MockUoW) SlotPoolRepository() ports.SlotPoolRepository {
	args := m.Called()
	return args.Get(0).(ports.SlotPoolRepository)
}

func (m *MockUoW) OrderEventRepository() ports.OrderEventRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderEventRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockFulfillmentUoWFactory struct{ mock.Mock }

func (m *MockFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	args := m.Called()
	return args.Get(0).(commands.FulfillmentUoW)
}

type MockCatalogReader struct{ mock.Mock }

func (m *MockCatalogReader) AssignmentsFor(
	ctx context.Context, storeID kernel.UUID, sku string,
) (catalog.Assignments, error) {
	args := m.Called(ctx, storeID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(catalog.Assignments), args.Error(1)
}

// StubNotifier records notifications without failing. Post-commit delivery
// is best effort, so handler tests only assert on what was recorded.
type StubNotifier struct {
	mu       sync.Mutex
	Supplier []ports.Notification
	Staff    []ports.Notification
}

func (s *StubNotifier) NotifySupplier(_ context.Context, _ kernel.UUID, n ports.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Supplier = append(s.Supplier, n)
	return nil
}

func (s *StubNotifier) NotifyStaff(_ context.Context, _ kernel.UUID, n ports.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Staff = append(s.Staff, n)
	return nil
}

// StubPublisher records published events without failing.
type StubPublisher struct {
	mu     sync.Mutex
	Events []ports.OrderEvent
}

func (s *StubPublisher) Publish(_ context.Context, event ports.OrderEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
	return nil
}
