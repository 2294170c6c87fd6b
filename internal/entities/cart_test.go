package entities_test

import (
	"testing"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func percentPromo(p string) entities.Promotion {
	return entities.Promotion{Published: true, Discount: entities.PercentageDiscount{Percentage: dec(p)}}
}

func amountPromo(a string) entities.Promotion {
	return entities.Promotion{Published: true, Discount: entities.AmountDiscount{Amount: dec(a)}}
}

func TestCharmPrice(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{in: "19.99", want: "19.99"},
		{in: "19.00", want: "19.99"},
		{in: "19.50", want: "19.99"},
		{in: "12.50", want: "12.99"},
		{in: "12.01", want: "12.99"},
		{in: "0.25", want: "0.99"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.True(t, dec(tc.want).Equal(entities.CharmPrice(dec(tc.in))), "got %s", entities.CharmPrice(dec(tc.in)))
		})
	}
}

func TestPartPrice(t *testing.T) {
	testCases := []struct {
		name string
		part entities.Part
		want string
	}{
		{name: "no discount", part: entities.Part{Price: dec("15.00")}, want: "15.00"},
		{name: "discount charm rounded up", part: entities.Part{Price: dec("15.00"), DiscountedPrice: nullDec("12.50")}, want: "12.99"},
		{name: "discount already .99", part: entities.Part{Price: dec("15.00"), DiscountedPrice: nullDec("12.99")}, want: "12.99"},
		{name: "discount not lower", part: entities.Part{Price: dec("15.00"), DiscountedPrice: nullDec("15.00")}, want: "15.00"},
		{name: "discount higher", part: entities.Part{Price: dec("15.00"), DiscountedPrice: nullDec("18.00")}, want: "15.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := entities.PartPrice(tc.part)
			assert.True(t, dec(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestProductPrice(t *testing.T) {
	testCases := []struct {
		name    string
		product entities.Product
		active  []entities.Promotion
		want    string
	}{
		{
			name:    "default price",
			product: entities.Product{DefaultPrice: dec("40")},
			want:    "40",
		},
		{
			name:    "best of promotions",
			product: entities.Product{DefaultPrice: dec("40")},
			active:  []entities.Promotion{percentPromo("10"), amountPromo("5")},
			want:    "35",
		},
		{
			name:    "promotion beats on sale",
			product: entities.Product{DefaultPrice: dec("40"), OnSale: true, DiscountedPrice: nullDec("20")},
			active:  []entities.Promotion{amountPromo("5")},
			want:    "35",
		},
		{
			name:    "on sale without promotions",
			product: entities.Product{DefaultPrice: dec("40"), OnSale: true, DiscountedPrice: nullDec("29.5")},
			want:    "29.5",
		},
		{
			name:    "discounted price ignored when not on sale",
			product: entities.Product{DefaultPrice: dec("40"), DiscountedPrice: nullDec("29.5")},
			want:    "40",
		},
		{
			name:    "on sale price above default is capped",
			product: entities.Product{DefaultPrice: dec("40"), OnSale: true, DiscountedPrice: nullDec("45")},
			want:    "40",
		},
		{
			name:    "amount larger than price floors at zero",
			product: entities.Product{DefaultPrice: dec("4")},
			active:  []entities.Promotion{amountPromo("5")},
			want:    "0",
		},
		{
			name:    "rounded half up",
			product: entities.Product{DefaultPrice: dec("19.99")},
			active:  []entities.Promotion{percentPromo("15")},
			want:    "16.99",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := entities.ProductPrice(tc.product, tc.active)
			assert.True(t, dec(tc.want).Equal(got), "got %s", got)
			assert.True(t, got.LessThanOrEqual(tc.product.DefaultPrice))
		})
	}
}

func TestCalculateCartTotal(t *testing.T) {
	lines := []entities.PricedLine{
		{Line: entities.AdditionalPartLine{LineBase: entities.LineBase{Quantity: 2}}, EffectivePrice: dec("12.99")},
		{Line: entities.FullProductLine{LineBase: entities.LineBase{Quantity: 1}}, EffectivePrice: dec("35.00")},
	}

	total := entities.CalculateCartTotal(lines)

	assert.Equal(t, "60.98", total.StringFixed(2))
	assert.True(t, entities.CalculateCartTotal(nil).IsZero())
}

func TestPromotionActivity(t *testing.T) {
	promo := entities.Promotion{StartDate: "2026-10-18", EndDate: "2026-10-18", Published: true}

	assert.True(t, promo.IsActiveOn("2026-10-18"))
	assert.False(t, promo.IsActiveOn("2026-10-19"))
	assert.False(t, promo.IsActiveOn("2026-10-17"))

	promo.Published = false
	assert.False(t, promo.IsActiveOn("2026-10-18"))
}

func TestFilterActivePromotions(t *testing.T) {
	promos := []entities.Promotion{
		{ID: 1, StartDate: "2026-10-01", EndDate: "2026-10-31", Published: true},
		{ID: 2, StartDate: "2026-10-01", EndDate: "2026-10-31", Published: false},
		{ID: 3, StartDate: "2026-09-01", EndDate: "2026-09-30", Published: true},
		{ID: 4, StartDate: "2026-10-18", EndDate: "2026-10-18", Published: true},
	}

	active := entities.FilterActivePromotions(promos, "2026-10-18")

	require.Len(t, active, 2)
	assert.Equal(t, int64(1), active[0].ID)
	assert.Equal(t, int64(4), active[1].ID)
}

func TestNewDiscount(t *testing.T) {
	testCases := []struct {
		name       string
		percentage decimal.NullDecimal
		amount     decimal.NullDecimal
		wantKind   string
		wantErr    bool
	}{
		{name: "percentage", percentage: nullDec("10"), wantKind: "percentage"},
		{name: "amount", amount: nullDec("5"), wantKind: "amount"},
		{name: "both", percentage: nullDec("10"), amount: nullDec("5"), wantErr: true},
		{name: "neither", wantErr: true},
		{name: "percentage over 100", percentage: nullDec("101"), wantErr: true},
		{name: "negative amount", amount: nullDec("-1"), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := entities.NewDiscount(tc.percentage, tc.amount)
			if tc.wantErr {
				assert.ErrorIs(t, err, entities.ErrInvalidPromotion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, d.Kind())
		})
	}
}

func TestMoneyConversion(t *testing.T) {
	assert.Equal(t, int64(6098), entities.ToCents(dec("60.98")))
	assert.Equal(t, int64(1000), entities.ToCents(dec("9.995")))
	assert.Equal(t, "12.34", entities.FromCents(1234).StringFixed(2))
}
