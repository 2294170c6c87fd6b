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

type MockOrderReader struct{ mock.Mock }

func NewMockOrderReader(t testingT) *MockOrderReader {
	m := &MockOrderReader{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrderReader) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *MockOrderReader) StatusHistory(ctx context.Context, orderID string) ([]entities.StatusChange, error) {
	args := m.Called(ctx, orderID)
	changes, _ := args.Get(0).([]entities.StatusChange)
	return changes, args.Error(1)
}

type MockStatusUpdater struct{ mock.Mock }

func NewMockStatusUpdater(t testingT) *MockStatusUpdater {
	m := &MockStatusUpdater{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStatusUpdater) UpdateStatus(ctx context.Context, orderID string, upd service.StatusUpdate) (service.StatusUpdateResult, error) {
	args := m.Called(ctx, orderID, upd)
	return args.Get(0).(service.StatusUpdateResult), args.Error(1)
}

type MockTracker struct{ mock.Mock }

func NewMockTracker(t testingT) *MockTracker {
	m := &MockTracker{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTracker) RefreshOrder(ctx context.Context, orderID string) (service.RefreshResult, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(service.RefreshResult), args.Error(1)
}

func (m *MockTracker) RefreshAll(ctx context.Context) (service.BulkResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.BulkResult), args.Error(1)
}

func (m *MockTracker) ImportTracking(ctx context.Context, items []service.TrackingImport) service.BulkResult {
	return m.Called(ctx, items).Get(0).(service.BulkResult)
}

type MockCartPricer struct{ mock.Mock }

func NewMockCartPricer(t testingT) *MockCartPricer {
	m := &MockCartPricer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCartPricer) PriceCart(ctx context.Context, cartID string) (service.CartPricing, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(service.CartPricing), args.Error(1)
}

type MockOrderCreator struct{ mock.Mock }

func NewMockOrderCreator(t testingT) *MockOrderCreator {
	m := &MockOrderCreator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrderCreator) CreateOrder(ctx context.Context, checkout entities.Checkout) (entities.Order, error) {
	args := m.Called(ctx, checkout)
	return args.Get(0).(entities.Order), args.Error(1)
}

type MockCarrierUpdateHandler struct{ mock.Mock }

func NewMockCarrierUpdateHandler(t testingT) *MockCarrierUpdateHandler {
	m := &MockCarrierUpdateHandler{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCarrierUpdateHandler) HandleCarrierUpdate(ctx context.Context, trackingNumber, carrierStatus string) (service.RefreshResult, error) {
	args := m.Called(ctx, trackingNumber, carrierStatus)
	return args.Get(0).(service.RefreshResult), args.Error(1)
}
