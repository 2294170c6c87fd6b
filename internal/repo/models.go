package repo

import (
	"database/sql"
	"time"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              string         `db:"id"`
	OrderNumber     string         `db:"order_number"`
	CustomerEmail   string         `db:"customer_email"`
	PaymentIntentID string         `db:"payment_intent_id"`
	Status          string         `db:"order_status"`
	TrackingNumber  sql.NullString `db:"tracking_number"`
	CarrierService  sql.NullString `db:"carrier_service"`
	TotalCents      int64          `db:"total_cents"`
	ShippingCents   int64          `db:"shipping_cents"`
	OrderedAt       time.Time      `db:"ordered_at"`
	ShippedAt       sql.NullTime   `db:"shipped_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	Version         int            `db:"version"`
}

var orderColumns = []string{
	"id", "order_number", "customer_email", "payment_intent_id", "order_status",
	"tracking_number", "carrier_service", "total_cents", "shipping_cents",
	"ordered_at", "shipped_at", "updated_at", "version",
}

type OrderItem struct {
	OrderID        string        `db:"order_id"`
	CartItemID     int64         `db:"cart_item_id"`
	ProductID      sql.NullInt64 `db:"product_id"`
	PartID         sql.NullInt64 `db:"part_id"`
	Quantity       int           `db:"quantity"`
	UnitPriceCents int64         `db:"unit_price_cents"`
}

type StatusChange struct {
	ID        string         `db:"id"`
	OrderID   string         `db:"order_id"`
	From      sql.NullString `db:"from_status"`
	To        string         `db:"to_status"`
	Forced    bool           `db:"forced"`
	Source    string         `db:"source"`
	CreatedAt time.Time      `db:"created_at"`
}

type Part struct {
	ID              int64               `db:"id"`
	Name            string              `db:"name"`
	Price           decimal.Decimal     `db:"price"`
	DiscountedPrice decimal.NullDecimal `db:"discounted_price"`
}

type Product struct {
	ID              int64               `db:"id"`
	Name            string              `db:"name"`
	DefaultPrice    decimal.Decimal     `db:"default_price"`
	OnSale          bool                `db:"on_sale"`
	DiscountedPrice decimal.NullDecimal `db:"discounted_price"`
}

type Promotion struct {
	ID                 int64               `db:"id"`
	Name               string              `db:"name"`
	StartDate          string              `db:"start_date"`
	EndDate            string              `db:"end_date"`
	DiscountPercentage decimal.NullDecimal `db:"discount_percentage"`
	DiscountAmount     decimal.NullDecimal `db:"discount_amount"`
	Published          bool                `db:"published"`
}

type CartItem struct {
	ID               int64               `db:"id"`
	CartID           string              `db:"cart_id"`
	ProductID        sql.NullInt64       `db:"product_id"`
	Quantity         int                 `db:"quantity"`
	EffectivePrice   decimal.NullDecimal `db:"effective_price"`
	BasePrice        decimal.NullDecimal `db:"base_price"`
	IsAdditionalPart bool                `db:"is_additional_part"`
}

type CartItemPart struct {
	CartItemID int64 `db:"cart_item_id"`
	PartID     int64 `db:"part_id"`
}

func OrderToEntity(o Order, items []OrderItem) entities.Order {
	order := entities.Order{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerEmail:   o.CustomerEmail,
		PaymentIntentID: o.PaymentIntentID,
		Status:          entities.OrderStatus(o.Status),
		TrackingNumber:  nullStringToString(o.TrackingNumber),
		CarrierService:  nullStringToString(o.CarrierService),
		TotalCents:      o.TotalCents,
		ShippingCents:   o.ShippingCents,
		OrderedAt:       o.OrderedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
	if o.ShippedAt.Valid {
		shippedAt := o.ShippedAt.Time
		order.ShippedAt = &shippedAt
	}

	if len(items) > 0 {
		order.Items = make([]entities.OrderItem, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, OrderItemToEntity(it))
		}
	}
	return order
}

func OrderItemToEntity(i OrderItem) entities.OrderItem {
	return entities.OrderItem{
		CartItemID:     i.CartItemID,
		ProductID:      nullInt64ToPtr(i.ProductID),
		PartID:         nullInt64ToPtr(i.PartID),
		Quantity:       i.Quantity,
		UnitPriceCents: i.UnitPriceCents,
	}
}

func StatusChangeToEntity(c StatusChange) entities.StatusChange {
	return entities.StatusChange{
		ID:        c.ID,
		OrderID:   c.OrderID,
		From:      entities.OrderStatus(nullStringToString(c.From)),
		To:        entities.OrderStatus(c.To),
		Forced:    c.Forced,
		Source:    entities.TransitionSource(c.Source),
		CreatedAt: c.CreatedAt,
	}
}

func PartToEntity(p Part) entities.Part {
	return entities.Part{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
	}
}

func ProductToEntity(p Product) entities.Product {
	return entities.Product{
		ID:              p.ID,
		Name:            p.Name,
		DefaultPrice:    p.DefaultPrice,
		OnSale:          p.OnSale,
		DiscountedPrice: p.DiscountedPrice,
	}
}

func PromotionToEntity(p Promotion) (entities.Promotion, error) {
	discount, err := entities.NewDiscount(p.DiscountPercentage, p.DiscountAmount)
	if err != nil {
		return entities.Promotion{}, err
	}
	return entities.Promotion{
		ID:        p.ID,
		Name:      p.Name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Published: p.Published,
		Discount:  discount,
	}, nil
}

// CartItemToEntity builds the line variant from the is_additional_part flag.
func CartItemToEntity(c CartItem, partIDs []int64) entities.CartLine {
	base := entities.LineBase{
		ID:             c.ID,
		CartID:         c.CartID,
		Quantity:       c.Quantity,
		EffectivePrice: c.EffectivePrice,
		BasePrice:      c.BasePrice,
	}
	if c.IsAdditionalPart {
		return entities.AdditionalPartLine{LineBase: base, PartIDs: partIDs}
	}
	return entities.FullProductLine{LineBase: base, ProductID: nullInt64ToPtr(c.ProductID)}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullInt64ToPtr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}
