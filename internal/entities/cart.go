package entities

import "github.com/shopspring/decimal"

type Part struct {
	ID              int64
	Name            string
	Price           decimal.Decimal
	DiscountedPrice decimal.NullDecimal
}

type Product struct {
	ID              int64
	Name            string
	DefaultPrice    decimal.Decimal
	OnSale          bool
	DiscountedPrice decimal.NullDecimal
}

// CartLine is either an AdditionalPartLine or a FullProductLine.
type CartLine interface {
	Base() LineBase
	isCartLine()
}

// LineBase holds what every cart line stores, including the last effective
// price written for it.
type LineBase struct {
	ID             int64
	CartID         string
	Quantity       int
	EffectivePrice decimal.NullDecimal
	BasePrice      decimal.NullDecimal
}

func (b LineBase) Base() LineBase { return b }

// StoredPrice is the last known effective price, or zero.
func (b LineBase) StoredPrice() decimal.Decimal {
	if b.EffectivePrice.Valid {
		return b.EffectivePrice.Decimal
	}
	return decimal.Zero
}

// AdditionalPartLine is well formed only with exactly one part.
type AdditionalPartLine struct {
	LineBase
	PartIDs []int64
}

func (AdditionalPartLine) isCartLine() {}

type FullProductLine struct {
	LineBase
	ProductID *int64
}

func (FullProductLine) isCartLine() {}

// PricedLine is a cart line with its freshly resolved price. Fallback is set
// when the price came from the stored value because a reference could not be
// resolved.
type PricedLine struct {
	Line           CartLine
	EffectivePrice decimal.Decimal
	Fallback       bool
}

func (l PricedLine) Quantity() int {
	return l.Line.Base().Quantity
}

// PartPrice is the effective price of a part: the discounted price, charm
// rounded, when it is below the list price, otherwise the list price.
func PartPrice(part Part) decimal.Decimal {
	if part.DiscountedPrice.Valid && part.DiscountedPrice.Decimal.LessThan(part.Price) {
		return RoundMoney(CharmPrice(part.DiscountedPrice.Decimal))
	}
	return RoundMoney(part.Price)
}

// ProductPrice is the effective price of a product given the promotions
// active today. The most generous promotion wins; the on-sale price is used
// only when no promotion is active. The result never exceeds the default
// price and never drops below zero.
func ProductPrice(product Product, active []Promotion) decimal.Decimal {
	price := product.DefaultPrice
	for _, promo := range active {
		price = decimal.Min(price, promo.Discount.Apply(product.DefaultPrice))
	}

	if len(active) == 0 && product.OnSale && product.DiscountedPrice.Valid {
		price = decimal.Min(price, product.DiscountedPrice.Decimal)
	}

	return RoundMoney(decimal.Max(price, decimal.Zero))
}

// CalculateCartTotal sums price times quantity and rounds once at the end.
func CalculateCartTotal(lines []PricedLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.EffectivePrice.Mul(decimal.NewFromInt(int64(l.Quantity()))))
	}
	return RoundMoney(total)
}
