package mocks

import (
	"context"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
	"github.com/SergeyBogomolovv/storefront-orders/internal/service"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(t testingT, m *mock.Mock) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

type MockStatusRepo struct{ mock.Mock }

func NewMockStatusRepo(t testingT) *MockStatusRepo {
	m := &MockStatusRepo{}
	register(t, &m.Mock)
	return m
}

func (m *MockStatusRepo) GetOrderForUpdate(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockStatusRepo) UpdateOrderStatus(ctx context.Context, orderID string, version int, patch entities.StatusPatch) error {
	return m.Called(ctx, orderID, version, patch).Error(0)
}

func (m *MockStatusRepo) SaveStatusChange(ctx context.Context, change entities.StatusChange) error {
	return m.Called(ctx, change).Error(0)
}

type MockNotifier struct{ mock.Mock }

func NewMockNotifier(t testingT) *MockNotifier {
	m := &MockNotifier{}
	register(t, &m.Mock)
	return m
}

func (m *MockNotifier) NotifyStatusChange(ctx context.Context, order entities.Order) error {
	return m.Called(ctx, order).Error(0)
}

type MockCache struct{ mock.Mock }

func NewMockCache(t testingT) *MockCache {
	m := &MockCache{}
	register(t, &m.Mock)
	return m
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Bool(1)
}

func (m *MockCache) Set(key string, version int64, value []byte) bool {
	return m.Called(key, version, value).Bool(0)
}

func (m *MockCache) Delete(key string) {
	m.Called(key)
}

type MockOrderRepo struct{ mock.Mock }

func NewMockOrderRepo(t testingT) *MockOrderRepo {
	m := &MockOrderRepo{}
	register(t, &m.Mock)
	return m
}

func (m *MockOrderRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockOrderRepo) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	args := m.Called(ctx, count)
	orders, _ := args.Get(0).([]entities.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepo) StatusHistory(ctx context.Context, orderID string) ([]entities.StatusChange, error) {
	args := m.Called(ctx, orderID)
	changes, _ := args.Get(0).([]entities.StatusChange)
	return changes, args.Error(1)
}

func (m *MockOrderRepo) SaveOrder(ctx context.Context, o entities.Order) (bool, error) {
	args := m.Called(ctx, o)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepo) SaveItems(ctx context.Context, orderID string, items []entities.OrderItem) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *MockOrderRepo) SaveStatusChange(ctx context.Context, change entities.StatusChange) error {
	return m.Called(ctx, change).Error(0)
}

type MockCartPricer struct{ mock.Mock }

func NewMockCartPricer(t testingT) *MockCartPricer {
	m := &MockCartPricer{}
	register(t, &m.Mock)
	return m
}

func (m *MockCartPricer) PriceCart(ctx context.Context, cartID string) (service.CartPricing, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(service.CartPricing), args.Error(1)
}

type MockPartRepo struct{ mock.Mock }

func NewMockPartRepo(t testingT) *MockPartRepo {
	m := &MockPartRepo{}
	register(t, &m.Mock)
	return m
}

func (m *MockPartRepo) GetPart(ctx context.Context, partID int64) (entities.Part, error) {
	args := m.Called(ctx, partID)
	return args.Get(0).(entities.Part), args.Error(1)
}

type MockProductRepo struct{ mock.Mock }

func NewMockProductRepo(t testingT) *MockProductRepo {
	m := &MockProductRepo{}
	register(t, &m.Mock)
	return m
}

func (m *MockProductRepo) GetProduct(ctx context.Context, productID int64) (entities.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(entities.Product), args.Error(1)
}

type MockPromotionRepo struct{ mock.Mock }

func NewMockPromotionRepo(t testingT) *MockPromotionRepo {
	m := &MockPromotionRepo{}
	register(t, &m.Mock)
	return m
}

func (m *MockPromotionRepo) ProductPromotions(ctx context.Context, productID int64) ([]entities.Promotion, error) {
	args := m.Called(ctx, productID)
	promos, _ := args.Get(0).([]entities.Promotion)
	return promos, args.Error(1)
}

type MockCartRepo struct{ mock.Mock }

func NewMockCartRepo(t testingT) *MockCartRepo {
	m := &MockCartRepo{}
	register(t, &m.Mock)
	return m
}

func (m *MockCartRepo) CartLines(ctx context.Context, cartID string) ([]entities.CartLine, error) {
	args := m.Called(ctx, cartID)
	lines, _ := args.Get(0).([]entities.CartLine)
	return lines, args.Error(1)
}

type MockTrackingRepo struct{ mock.Mock }

func NewMockTrackingRepo(t testingT) *MockTrackingRepo {
	m := &MockTrackingRepo{}
	register(t, &m.Mock)
	return m
}

func (m *MockTrackingRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockTrackingRepo) GetOrderByTrackingNumber(ctx context.Context, trackingNumber string) (entities.Order, error) {
	args := m.Called(ctx, trackingNumber)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockTrackingRepo) OrdersAwaitingDelivery(ctx context.Context) ([]entities.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]entities.Order)
	return orders, args.Error(1)
}

type MockTrackingProvider struct{ mock.Mock }

func NewMockTrackingProvider(t testingT) *MockTrackingProvider {
	m := &MockTrackingProvider{}
	register(t, &m.Mock)
	return m
}

func (m *MockTrackingProvider) GetTrackingStatus(ctx context.Context, trackingNumber, carrier string) (string, error) {
	args := m.Called(ctx, trackingNumber, carrier)
	return args.String(0), args.Error(1)
}

type MockStatusUpdater struct{ mock.Mock }

func NewMockStatusUpdater(t testingT) *MockStatusUpdater {
	m := &MockStatusUpdater{}
	register(t, &m.Mock)
	return m
}

func (m *MockStatusUpdater) UpdateStatus(ctx context.Context, orderID string, upd service.StatusUpdate) (service.StatusUpdateResult, error) {
	args := m.Called(ctx, orderID, upd)
	return args.Get(0).(service.StatusUpdateResult), args.Error(1)
}
