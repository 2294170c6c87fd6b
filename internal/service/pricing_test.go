package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
	"github.com/SergeyBogomolovv/storefront-orders/internal/service"
	mocks "github.com/SergeyBogomolovv/storefront-orders/internal/service/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func ptr[T any](v T) *T {
	return &v
}

type pricingMocks struct {
	parts      *mocks.MockPartRepo
	products   *mocks.MockProductRepo
	promotions *mocks.MockPromotionRepo
	carts      *mocks.MockCartRepo
}

func newPricingService(t *testing.T) (pricingMocks, interface {
	EffectivePrice(ctx context.Context, line entities.CartLine) entities.PricedLine
	PriceCart(ctx context.Context, cartID string) (service.CartPricing, error)
	ProductPriceWithPromotions(product entities.Product, promotions []entities.Promotion) decimal.Decimal
}) {
	m := pricingMocks{
		parts:      mocks.NewMockPartRepo(t),
		products:   mocks.NewMockProductRepo(t),
		promotions: mocks.NewMockPromotionRepo(t),
		carts:      mocks.NewMockCartRepo(t),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewPricingService(logger, m.parts, m.products, m.promotions, m.carts).
		WithClock(func() time.Time { return today })
	return m, svc
}

func TestPricingService_EffectivePrice(t *testing.T) {
	dbError := errors.New("db error")

	testCases := []struct {
		name         string
		line         entities.CartLine
		mockBehavior func(m pricingMocks)
		want         string
		wantFallback bool
	}{
		{
			name: "part with discount is charm priced",
			line: entities.AdditionalPartLine{PartIDs: []int64{7}},
			mockBehavior: func(m pricingMocks) {
				m.parts.On("GetPart", mock.Anything, int64(7)).
					Return(entities.Part{ID: 7, Price: dec("15.00"), DiscountedPrice: nullDec("12.50")}, nil).Once()
			},
			want: "12.99",
		},
		{
			name: "part without discount",
			line: entities.AdditionalPartLine{PartIDs: []int64{7}},
			mockBehavior: func(m pricingMocks) {
				m.parts.On("GetPart", mock.Anything, int64(7)).
					Return(entities.Part{ID: 7, Price: dec("15.00")}, nil).Once()
			},
			want: "15",
		},
		{
			name: "part not found keeps stored price",
			line: entities.AdditionalPartLine{
				LineBase: entities.LineBase{EffectivePrice: nullDec("9.49")},
				PartIDs:  []int64{7},
			},
			mockBehavior: func(m pricingMocks) {
				m.parts.On("GetPart", mock.Anything, int64(7)).
					Return(entities.Part{}, entities.ErrPartNotFound).Once()
			},
			want:         "9.49",
			wantFallback: true,
		},
		{
			name: "part line with two parts is malformed",
			line: entities.AdditionalPartLine{
				LineBase: entities.LineBase{EffectivePrice: nullDec("3.00")},
				PartIDs:  []int64{1, 2},
			},
			mockBehavior: func(pricingMocks) {},
			want:         "3",
			wantFallback: true,
		},
		{
			name:         "part line without stored price falls back to zero",
			line:         entities.AdditionalPartLine{},
			mockBehavior: func(pricingMocks) {},
			want:         "0",
			wantFallback: true,
		},
		{
			name: "product with best promotion",
			line: entities.FullProductLine{ProductID: ptr(int64(3))},
			mockBehavior: func(m pricingMocks) {
				m.products.On("GetProduct", mock.Anything, int64(3)).
					Return(entities.Product{ID: 3, DefaultPrice: dec("40"), OnSale: true, DiscountedPrice: nullDec("20")}, nil).Once()
				m.promotions.On("ProductPromotions", mock.Anything, int64(3)).
					Return([]entities.Promotion{
						{ID: 1, StartDate: "2026-10-01", EndDate: "2026-10-31", Published: true, Discount: entities.PercentageDiscount{Percentage: dec("10")}},
						{ID: 2, StartDate: "2026-10-18", EndDate: "2026-10-18", Published: true, Discount: entities.AmountDiscount{Amount: dec("5")}},
					}, nil).Once()
			},
			want: "35",
		},
		{
			name: "product on sale without promotions",
			line: entities.FullProductLine{ProductID: ptr(int64(3))},
			mockBehavior: func(m pricingMocks) {
				m.products.On("GetProduct", mock.Anything, int64(3)).
					Return(entities.Product{ID: 3, DefaultPrice: dec("40"), OnSale: true, DiscountedPrice: nullDec("32.5")}, nil).Once()
				m.promotions.On("ProductPromotions", mock.Anything, int64(3)).
					Return([]entities.Promotion{}, nil).Once()
			},
			want: "32.5",
		},
		{
			name: "unpublished and out of range promotions are ignored",
			line: entities.FullProductLine{ProductID: ptr(int64(3))},
			mockBehavior: func(m pricingMocks) {
				m.products.On("GetProduct", mock.Anything, int64(3)).
					Return(entities.Product{ID: 3, DefaultPrice: dec("40"), OnSale: true, DiscountedPrice: nullDec("32.5")}, nil).Once()
				m.promotions.On("ProductPromotions", mock.Anything, int64(3)).
					Return([]entities.Promotion{
						{ID: 1, StartDate: "2026-10-01", EndDate: "2026-10-31", Published: false, Discount: entities.AmountDiscount{Amount: dec("20")}},
						{ID: 2, StartDate: "2026-10-19", EndDate: "2026-10-31", Published: true, Discount: entities.AmountDiscount{Amount: dec("20")}},
						{ID: 3, StartDate: "2026-10-01", EndDate: "2026-10-17", Published: true, Discount: entities.AmountDiscount{Amount: dec("20")}},
					}, nil).Once()
			},
			want: "32.5",
		},
		{
			name: "missing product reference",
			line: entities.FullProductLine{
				LineBase: entities.LineBase{EffectivePrice: nullDec("18.00")},
			},
			mockBehavior: func(pricingMocks) {},
			want:         "18",
			wantFallback: true,
		},
		{
			name: "product lookup fails",
			line: entities.FullProductLine{
				LineBase:  entities.LineBase{EffectivePrice: nullDec("18.00")},
				ProductID: ptr(int64(3)),
			},
			mockBehavior: func(m pricingMocks) {
				m.products.On("GetProduct", mock.Anything, int64(3)).
					Return(entities.Product{}, dbError).Once()
			},
			want:         "18",
			wantFallback: true,
		},
		{
			name: "promotion lookup fails",
			line: entities.FullProductLine{
				LineBase:  entities.LineBase{EffectivePrice: nullDec("38.00")},
				ProductID: ptr(int64(3)),
			},
			mockBehavior: func(m pricingMocks) {
				m.products.On("GetProduct", mock.Anything, int64(3)).
					Return(entities.Product{ID: 3, DefaultPrice: dec("40")}, nil).Once()
				m.promotions.On("ProductPromotions", mock.Anything, int64(3)).
					Return(nil, dbError).Once()
			},
			want:         "38",
			wantFallback: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, svc := newPricingService(t)
			tc.mockBehavior(m)

			got := svc.EffectivePrice(context.Background(), tc.line)

			assert.True(t, dec(tc.want).Equal(got.EffectivePrice), "got %s", got.EffectivePrice)
			assert.Equal(t, tc.wantFallback, got.Fallback)
		})
	}
}

func TestPricingService_PriceCart(t *testing.T) {
	m, svc := newPricingService(t)

	lines := []entities.CartLine{
		entities.AdditionalPartLine{LineBase: entities.LineBase{ID: 1, Quantity: 2}, PartIDs: []int64{7}},
		entities.FullProductLine{LineBase: entities.LineBase{ID: 2, Quantity: 1}, ProductID: ptr(int64(3))},
	}
	m.carts.On("CartLines", mock.Anything, "cart-1").Return(lines, nil).Once()
	m.parts.On("GetPart", mock.Anything, int64(7)).
		Return(entities.Part{ID: 7, Price: dec("14.00"), DiscountedPrice: nullDec("12.00")}, nil).Once()
	m.products.On("GetProduct", mock.Anything, int64(3)).
		Return(entities.Product{ID: 3, DefaultPrice: dec("40")}, nil).Once()
	m.promotions.On("ProductPromotions", mock.Anything, int64(3)).
		Return([]entities.Promotion{{StartDate: "2026-10-18", EndDate: "2026-10-20", Published: true, Discount: entities.AmountDiscount{Amount: dec("5")}}}, nil).Once()

	pricing, err := svc.PriceCart(context.Background(), "cart-1")
	require.NoError(t, err)

	require.Len(t, pricing.Lines, 2)
	assert.Equal(t, "12.99", pricing.Lines[0].EffectivePrice.StringFixed(2))
	assert.Equal(t, "35.00", pricing.Lines[1].EffectivePrice.StringFixed(2))
	assert.Equal(t, "60.98", pricing.Total.StringFixed(2))
}

func TestPricingService_PriceCart_RepoError(t *testing.T) {
	m, svc := newPricingService(t)
	dbError := errors.New("db error")
	m.carts.On("CartLines", mock.Anything, "cart-1").Return(nil, dbError).Once()

	_, err := svc.PriceCart(context.Background(), "cart-1")
	assert.ErrorIs(t, err, dbError)
}

func TestPricingService_ProductPriceWithPromotions(t *testing.T) {
	_, svc := newPricingService(t)

	product := entities.Product{DefaultPrice: dec("40"), OnSale: true, DiscountedPrice: nullDec("30")}
	promotions := []entities.Promotion{
		{StartDate: "2026-10-18", EndDate: "2026-10-18", Published: true, Discount: entities.AmountDiscount{Amount: dec("2")}},
		{StartDate: "2026-10-01", EndDate: "2026-10-17", Published: true, Discount: entities.AmountDiscount{Amount: dec("20")}},
	}

	assert.Equal(t, "38.00", svc.ProductPriceWithPromotions(product, promotions).StringFixed(2))
	assert.Equal(t, "30.00", svc.ProductPriceWithPromotions(product, promotions[1:]).StringFixed(2))
}
