package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
	"github.com/SergeyBogomolovv/storefront-orders/internal/service"
	mocks "github.com/SergeyBogomolovv/storefront-orders/internal/service/mocks"
	txMocks "github.com/SergeyBogomolovv/storefront-orders/pkg/trm/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderMocks struct {
	repo   *mocks.MockOrderRepo
	cache  *mocks.MockCache
	pricer *mocks.MockCartPricer
}

func newOrderService(t *testing.T) (orderMocks, interface {
	CreateOrder(ctx context.Context, checkout entities.Checkout) (entities.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	StatusHistory(ctx context.Context, orderID string) ([]entities.StatusChange, error)
	WarmUpCache(ctx context.Context, count int) error
}) {
	m := orderMocks{
		repo:   mocks.NewMockOrderRepo(t),
		cache:  mocks.NewMockCache(t),
		pricer: mocks.NewMockCartPricer(t),
	}
	tx := txMocks.NewMockManager(t).PassThrough()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return m, service.NewOrderService(logger, tx, m.repo, m.cache, m.pricer)
}

func TestOrderService_CreateOrder(t *testing.T) {
	checkout := entities.Checkout{
		CartID: "cart-1", CustomerEmail: "a@b.c", PaymentIntentID: "pi_1", ShippingCents: 500,
	}
	pricing := service.CartPricing{
		CartID: "cart-1",
		Lines: []entities.PricedLine{
			{
				Line:           entities.AdditionalPartLine{LineBase: entities.LineBase{ID: 1, Quantity: 2}, PartIDs: []int64{7}},
				EffectivePrice: dec("12.99"),
			},
			{
				Line:           entities.FullProductLine{LineBase: entities.LineBase{ID: 2, Quantity: 1}, ProductID: ptr(int64(3))},
				EffectivePrice: dec("35"),
			},
		},
		Total: dec("60.98"),
	}
	dbError := errors.New("db error")

	testCases := []struct {
		name         string
		mockBehavior func(m orderMocks)
		wantErr      error
	}{
		{
			name: "success",
			mockBehavior: func(m orderMocks) {
				m.pricer.On("PriceCart", mock.Anything, "cart-1").Return(pricing, nil).Once()
				m.repo.On("SaveOrder", mock.Anything, mock.MatchedBy(func(o entities.Order) bool {
					return o.Status == entities.StatusPending && o.TotalCents == 6598 &&
						o.ShippingCents == 500 && o.PaymentIntentID == "pi_1"
				})).Return(true, nil).Once()
				m.repo.On("SaveItems", mock.Anything, mock.Anything, mock.MatchedBy(func(items []entities.OrderItem) bool {
					return len(items) == 2 &&
						items[0].UnitPriceCents == 1299 && *items[0].PartID == 7 && items[0].Quantity == 2 &&
						items[1].UnitPriceCents == 3500 && *items[1].ProductID == 3
				})).Return(nil).Once()
				m.repo.On("SaveStatusChange", mock.Anything, mock.MatchedBy(func(c entities.StatusChange) bool {
					return c.From == "" && c.To == entities.StatusPending && c.Source == entities.SourceCheckout
				})).Return(nil).Once()
			},
		},
		{
			name: "retries transient failure",
			mockBehavior: func(m orderMocks) {
				m.pricer.On("PriceCart", mock.Anything, "cart-1").Return(pricing, nil).Once()
				m.repo.On("SaveOrder", mock.Anything, mock.Anything).Return(false, dbError).Once()
				m.repo.On("SaveOrder", mock.Anything, mock.Anything).Return(true, nil).Once()
				m.repo.On("SaveItems", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
				m.repo.On("SaveStatusChange", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name: "duplicate checkout is not retried",
			mockBehavior: func(m orderMocks) {
				m.pricer.On("PriceCart", mock.Anything, "cart-1").Return(pricing, nil).Once()
				m.repo.On("SaveOrder", mock.Anything, mock.Anything).Return(false, nil).Once()
			},
			wantErr: entities.ErrDuplicateCheckout,
		},
		{
			name: "empty cart",
			mockBehavior: func(m orderMocks) {
				m.pricer.On("PriceCart", mock.Anything, "cart-1").
					Return(service.CartPricing{CartID: "cart-1"}, nil).Once()
			},
			wantErr: entities.ErrEmptyCart,
		},
		{
			name: "pricing failure",
			mockBehavior: func(m orderMocks) {
				m.pricer.On("PriceCart", mock.Anything, "cart-1").Return(service.CartPricing{}, dbError).Once()
			},
			wantErr: dbError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, svc := newOrderService(t)
			tc.mockBehavior(m)

			got, err := svc.CreateOrder(context.Background(), checkout)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.True(t, strings.HasPrefix(got.OrderNumber, "ORD-"))
			assert.Len(t, got.OrderNumber, 14)
			assert.Equal(t, int64(6598), got.TotalCents)
		})
	}
}

func TestOrderService_GetOrderByID(t *testing.T) {
	order := entities.Order{ID: "o1", Status: entities.StatusPaid, TotalCents: 1000}
	data, err := order.Marshal()
	require.NoError(t, err)

	testCases := []struct {
		name         string
		mockBehavior func(m orderMocks)
		want         entities.Order
		wantErr      error
	}{
		{
			name: "cache hit",
			mockBehavior: func(m orderMocks) {
				m.cache.On("Get", "o1").Return(data, true).Once()
			},
			want: order,
		},
		{
			name: "cache miss loads and stores",
			mockBehavior: func(m orderMocks) {
				m.cache.On("Get", "o1").Return(nil, false).Once()
				m.repo.On("GetOrderByID", mock.Anything, "o1").Return(order, nil).Once()
				m.cache.On("Set", "o1", int64(0), mock.Anything).Return(true).Once()
			},
			want: order,
		},
		{
			name: "corrupt cache entry",
			mockBehavior: func(m orderMocks) {
				m.cache.On("Get", "o1").Return([]byte("garbage"), true).Once()
			},
			wantErr: entities.ErrInvalidOrder,
		},
		{
			name: "not found is not retried",
			mockBehavior: func(m orderMocks) {
				m.cache.On("Get", "o1").Return(nil, false).Once()
				m.repo.On("GetOrderByID", mock.Anything, "o1").Return(entities.Order{}, entities.ErrOrderNotFound).Once()
			},
			wantErr: entities.ErrOrderNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, svc := newOrderService(t)
			tc.mockBehavior(m)

			got, err := svc.GetOrderByID(context.Background(), "o1")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want.ID, got.ID)
			assert.Equal(t, tc.want.Status, got.Status)
			assert.Equal(t, tc.want.TotalCents, got.TotalCents)
		})
	}
}

func TestOrderService_StatusHistory(t *testing.T) {
	m, svc := newOrderService(t)
	history := []entities.StatusChange{
		{OrderID: "o1", To: entities.StatusPending},
		{OrderID: "o1", From: entities.StatusPending, To: entities.StatusPaid},
	}

	m.cache.On("Get", "o1").Return(nil, false).Once()
	m.repo.On("GetOrderByID", mock.Anything, "o1").Return(entities.Order{ID: "o1"}, nil).Once()
	m.cache.On("Set", "o1", int64(0), mock.Anything).Return(true).Once()
	m.repo.On("StatusHistory", mock.Anything, "o1").Return(history, nil).Once()

	got, err := svc.StatusHistory(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, history, got)
}

func TestOrderService_WarmUpCache(t *testing.T) {
	m, svc := newOrderService(t)
	orders := []entities.Order{{ID: "a"}, {ID: "b"}}

	m.repo.On("LatestOrders", mock.Anything, 10).Return(orders, nil).Once()
	m.cache.On("Set", "a", int64(0), mock.Anything).Return(true).Once()
	m.cache.On("Set", "b", int64(0), mock.Anything).Return(true).Once()

	require.NoError(t, svc.WarmUpCache(context.Background(), 10))
}

func TestOrderService_WarmUpCache_Error(t *testing.T) {
	m, svc := newOrderService(t)
	dbError := errors.New("db error")
	m.repo.On("LatestOrders", mock.Anything, 10).Return(nil, dbError).Once()

	assert.ErrorIs(t, svc.WarmUpCache(context.Background(), 10), dbError)
}
