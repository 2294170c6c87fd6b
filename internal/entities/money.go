package entities

import "github.com/shopspring/decimal"

var (
	hundred     = decimal.NewFromInt(100)
	ninetyNine  = decimal.RequireFromString("0.99")
	moneyPlaces = int32(2)
)

// RoundMoney rounds half away from zero to cents, which is half-up for the
// non-negative amounts handled here.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// ToCents converts a dollar amount to integer cents, rounding first.
func ToCents(d decimal.Decimal) int64 {
	return RoundMoney(d).Mul(hundred).IntPart()
}

func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -moneyPlaces)
}

// CharmPrice moves a price to the .99 of its whole dollar. A price already
// ending in .99 is left alone; anything else, including whole dollars, goes
// up to .99.
func CharmPrice(price decimal.Decimal) decimal.Decimal {
	dollars := price.Floor()
	if price.Sub(dollars).Equal(ninetyNine) {
		return price
	}
	return dollars.Add(ninetyNine)
}
