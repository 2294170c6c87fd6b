package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Discount is either a PercentageDiscount or an AmountDiscount.
type Discount interface {
	Apply(price decimal.Decimal) decimal.Decimal
	Kind() string
}

type PercentageDiscount struct {
	Percentage decimal.Decimal
}

func (d PercentageDiscount) Apply(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Sub(d.Percentage.Div(hundred)))
}

func (PercentageDiscount) Kind() string { return "percentage" }

type AmountDiscount struct {
	Amount decimal.Decimal
}

func (d AmountDiscount) Apply(price decimal.Decimal) decimal.Decimal {
	return price.Sub(d.Amount)
}

func (AmountDiscount) Kind() string { return "amount" }

// NewDiscount builds the discount of a stored promotion, which must carry
// exactly one of a percentage (0-100) or an amount.
func NewDiscount(percentage, amount decimal.NullDecimal) (Discount, error) {
	switch {
	case percentage.Valid && amount.Valid, !percentage.Valid && !amount.Valid:
		return nil, ErrInvalidPromotion
	case percentage.Valid:
		p := percentage.Decimal
		if p.IsNegative() || p.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: percentage %s out of range", ErrInvalidPromotion, p)
		}
		return PercentageDiscount{Percentage: p}, nil
	default:
		if amount.Decimal.IsNegative() {
			return nil, fmt.Errorf("%w: negative amount %s", ErrInvalidPromotion, amount.Decimal)
		}
		return AmountDiscount{Amount: amount.Decimal}, nil
	}
}

// Promotion dates are ISO calendar dates (YYYY-MM-DD) and compare as strings.
type Promotion struct {
	ID        int64
	Name      string
	StartDate string
	EndDate   string
	Published bool
	Discount  Discount
}

// IsActiveOn reports whether the promotion is published and date lies within
// its inclusive bounds.
func (p Promotion) IsActiveOn(date string) bool {
	return p.Published && p.StartDate <= date && date <= p.EndDate
}

// FilterActivePromotions keeps the promotions active on date. Product pricing
// loads all of a product's promotions and selects the active ones here.
func FilterActivePromotions(promotions []Promotion, date string) []Promotion {
	active := make([]Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.IsActiveOn(date) {
			active = append(active, p)
		}
	}
	return active
}

// DateOf formats t as a promotion calendar date.
func DateOf(t time.Time) string {
	return t.Format(time.DateOnly)
}
