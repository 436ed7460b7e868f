package commands_test

import (
	"context"
	"time"

	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/domain/model/cart"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/notification"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Add(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).([]*product.Product)
	return products, args.Error(1)
}

func (m *MockProductRepository) ListByFacility(ctx context.Context, facility string) ([]*product.Product, error) {
	args := m.Called(ctx, facility)
	products, _ := args.Get(0).([]*product.Product)
	return products, args.Error(1)
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
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customer kernel.Phone) ([]*order.Order, error) {
	args := m.Called(ctx, customer)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListByFacility(ctx context.Context, facility string, activeOnly bool) ([]*order.Order, error) {
	args := m.Called(ctx, facility, activeOnly)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListPaymentPendingBefore(ctx context.Context, cutoff time.Time) ([]kernel.UUID, error) {
	args := m.Called(ctx, cutoff)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
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

func (m *MockUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DomainEvents() []order.StatusChanged {
	args := m.Called()
	events, _ := args.Get(0).([]order.StatusChanged)
	return events
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockProductUoWFactory struct{ mock.Mock }

func (m *MockProductUoWFactory) Create() commands.ProductUoW {
	args := m.Called()
	return args.Get(0).(commands.ProductUoW)
}

type MockCartStore struct{ mock.Mock }

func (m *MockCartStore) Get(ctx context.Context, session string) (*cart.Cart, error) {
	args := m.Called(ctx, session)
	c, _ := args.Get(0).(*cart.Cart)
	return c, args.Error(1)
}

func (m *MockCartStore) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartStore) Delete(ctx context.Context, session string) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockCartStore) ListIdle(ctx context.Context, cutoff time.Time) ([]string, error) {
	args := m.Called(ctx, cutoff)
	sessions, _ := args.Get(0).([]string)
	return sessions, args.Error(1)
}

type MockNotificationQueue struct{ mock.Mock }

func (m *MockNotificationQueue) Publish(ctx context.Context, event notification.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockNotificationQueue) Poll(ctx context.Context, recipient kernel.Phone) ([]notification.Event, error) {
	args := m.Called(ctx, recipient)
	events, _ := args.Get(0).([]notification.Event)
	return events, args.Error(1)
}

func (m *MockNotificationQueue) Dismiss(ctx context.Context, recipient kernel.Phone, orderID kernel.UUID) error {
	args := m.Called(ctx, recipient, orderID)
	return args.Error(0)
}

func (m *MockNotificationQueue) Purge(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type MockStockReserver struct{ mock.Mock }

func (m *MockStockReserver) Lock(ids ...kernel.UUID) func() {
	m.Called(ids)
	return func() {}
}

func (m *MockStockReserver) TryReserve(ctx context.Context, id kernel.UUID, delta int) (bool, int, error) {
	args := m.Called(ctx, id, delta)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockStockReserver) Shortage(ctx context.Context, id kernel.UUID, requested, remaining int) error {
	args := m.Called(ctx, id, requested, remaining)
	return args.Error(0)
}

func (m *MockStockReserver) TryReserveMany(ctx context.Context, deltas map[kernel.UUID]int) error {
	args := m.Called(ctx, deltas)
	return args.Error(0)
}

type noLocks struct{}

func (noLocks) Lock(string) func() { return func() {} }
