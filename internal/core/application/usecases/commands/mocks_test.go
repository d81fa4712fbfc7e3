package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/domain/model/partner"
	"tracking/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) Add(ctx context.Context, aggregate *partner.DeliveryPartner) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockPartnerRepository) Update(ctx context.Context, aggregate *partner.DeliveryPartner) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.DeliveryPartner), args.Error(1)
}

func (m *MockPartnerRepository) GetAllStale(
	ctx context.Context, lastSeenBefore time.Time,
) ([]*partner.DeliveryPartner, error) {
	args := m.Called(ctx, lastSeenBefore)
	return args.Get(0).([]*partner.DeliveryPartner), args.Error(1)
}

type MockUoW struct {
	mock.Mock
}

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

func (m *MockUoW) PartnerRepository() ports.PartnerRepository {
	args := m.Called()
	return args.Get(0).(ports.PartnerRepository)
}

type MockUoWFactory struct {
	mock.Mock
}

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct {
	mock.Mock
}

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPartnerUoWFactory struct {
	mock.Mock
}

func (m *MockPartnerUoWFactory) Create() commands.PartnerUoW {
	args := m.Called()
	return args.Get(0).(commands.PartnerUoW)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(orderID kernel.UUID, event order.TrackingEvent) error {
	args := m.Called(orderID, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishCustomerEvent(
	customerID kernel.UUID, orderID kernel.UUID, event order.TrackingEvent,
) error {
	args := m.Called(customerID, orderID, event)
	return args.Error(0)
}

type MockNotificationDispatcher struct {
	mock.Mock
}

func (m *MockNotificationDispatcher) Dispatch(ctx context.Context, notification ports.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// Test fixtures shared by the handler tests.

func testLogger() *slog.Logger {
	return slog.Default()
}

func makeOrder(t *testing.T) *order.Order {
	t.Helper()

	restaurant, err := kernel.NewGeoPoint(12.9352, 77.6245)
	require.NoError(t, err)
	delivery, err := kernel.NewGeoPoint(12.9716, 77.5946)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), restaurant, delivery)
	require.NoError(t, err)

	return o
}

func makeAvailablePartner(t *testing.T) *partner.DeliveryPartner {
	t.Helper()

	p, err := partner.NewDeliveryPartner(
		kernel.NewUUID(), "Ravi Kumar", "+91-9876543210", "KA-01-AB-1234", partner.Bike)
	require.NoError(t, err)
	require.NoError(t, p.SetAvailability(partner.Available))

	return p
}

func makeDispatchedOrder(t *testing.T, p *partner.DeliveryPartner) *order.Order {
	t.Helper()

	o := makeOrder(t)
	require.NoError(t, p.Assign(o.ID()))
	require.NoError(t, o.AssignPartner(order.PartnerPayload{
		PartnerID:     p.ID().String(),
		Name:          p.Name(),
		Phone:         p.Phone(),
		VehicleNumber: p.VehicleNumber(),
		Rating:        p.Rating(),
	}))

	return o
}

// publisherAcceptingAll returns a publisher mock that absorbs any broadcast.
func publisherAcceptingAll() *MockEventPublisher {
	pub := new(MockEventPublisher)
	pub.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Maybe()
	pub.On("PublishCustomerEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return pub
}

// dispatcherAcceptingAll returns a dispatcher mock that absorbs any notification.
func dispatcherAcceptingAll() *MockNotificationDispatcher {
	d := new(MockNotificationDispatcher)
	d.On("Dispatch", mock.Anything, mock.Anything).Return(nil).Maybe()
	return d
}
