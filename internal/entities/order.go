package entities

import (
	"bytes"
	"encoding/gob"
	"time"
)

// TransitionSource tells who asked for a status change.
type TransitionSource string

const (
	SourceCheckout TransitionSource = "checkout"
	SourceAdmin    TransitionSource = "admin"
	SourceCarrier  TransitionSource = "carrier"
	SourceImport   TransitionSource = "import"
)

// Order totals are kept in integer cents, unlike cart pricing which works in
// decimal dollars. ToCents is the only place where the two meet.
type Order struct {
	ID              string
	OrderNumber     string
	CustomerEmail   string
	PaymentIntentID string
	Status          OrderStatus
	TrackingNumber  string
	CarrierService  string
	TotalCents      int64
	ShippingCents   int64
	OrderedAt       time.Time
	ShippedAt       *time.Time
	UpdatedAt       time.Time
	Version         int

	Items []OrderItem
}

type OrderItem struct {
	CartItemID     int64
	ProductID      *int64
	PartID         *int64
	Quantity       int
	UnitPriceCents int64
}

// StatusChange is one row of the order status audit trail.
type StatusChange struct {
	ID        string
	OrderID   string
	From      OrderStatus
	To        OrderStatus
	Forced    bool
	Source    TransitionSource
	CreatedAt time.Time
}

// StatusPatch is what a committed transition writes to the order row.
type StatusPatch struct {
	Status         OrderStatus
	TrackingNumber *string
	CarrierService *string
	ShippedAt      *time.Time
	UpdatedAt      time.Time
}

// Apply returns a copy of o with the patch and a bumped version.
func (p StatusPatch) Apply(o Order) Order {
	o.Status = p.Status
	if p.TrackingNumber != nil {
		o.TrackingNumber = *p.TrackingNumber
	}
	if p.CarrierService != nil {
		o.CarrierService = *p.CarrierService
	}
	if p.ShippedAt != nil {
		o.ShippedAt = p.ShippedAt
	}
	o.UpdatedAt = p.UpdatedAt
	o.Version++
	return o
}

// Checkout is the paid cart an order is created from.
type Checkout struct {
	CartID          string
	CustomerEmail   string
	PaymentIntentID string
	ShippingCents   int64
}

func (o *Order) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Order) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	return dec.Decode(o)
}

func init() {
	gob.Register(Order{})
	gob.Register(OrderItem{})
}
