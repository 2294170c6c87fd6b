package handler

import (
	"time"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
	"github.com/SergeyBogomolovv/storefront-orders/internal/service"
)

// UpdateStatusRequest
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	OrderStatus    string `json:"order_status" validate:"required"`
	SendEmail      bool   `json:"send_email"`
	TrackingNumber string `json:"tracking_number,omitempty" validate:"omitempty,max=64"`
	CarrierService string `json:"carrier_service,omitempty" validate:"omitempty,max=64"`
	Force          bool   `json:"force"`
	Version        *int   `json:"version,omitempty" validate:"omitempty,gte=0"`
}

func (r UpdateStatusRequest) ToUpdate() service.StatusUpdate {
	return service.StatusUpdate{
		Status:          entities.OrderStatus(r.OrderStatus),
		SendEmail:       r.SendEmail,
		TrackingNumber:  r.TrackingNumber,
		CarrierService:  r.CarrierService,
		Force:           r.Force,
		ExpectedVersion: r.Version,
		Source:          entities.SourceAdmin,
	}
}

// UpdateStatusResponse
// swagger:model UpdateStatusResponse
type UpdateStatusResponse struct {
	OrderID        string `json:"order_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	TrackingAdded  bool   `json:"tracking_added"`
	EmailSent      bool   `json:"email_sent"`
	Forced         bool   `json:"forced"`
	Version        int    `json:"version"`
}

func UpdateStatusResultToJSON(r service.StatusUpdateResult) UpdateStatusResponse {
	return UpdateStatusResponse{
		OrderID:        r.OrderID,
		PreviousStatus: r.PreviousStatus.String(),
		NewStatus:      r.NewStatus.String(),
		TrackingAdded:  r.TrackingAdded,
		EmailSent:      r.EmailSent,
		Forced:         r.Forced,
		Version:        r.Version,
	}
}

// TransitionErrorResponse is returned when the requested status cannot follow
// the current one.
// swagger:model TransitionErrorResponse
type TransitionErrorResponse struct {
	Message         string   `json:"message"`
	CurrentStatus   string   `json:"current_status"`
	RequestedStatus string   `json:"requested_status"`
	Allowed         []string `json:"allowed"`
}

func TransitionErrorToJSON(err *entities.TransitionError) TransitionErrorResponse {
	allowed := entities.AllowedTransitions(err.From)
	res := TransitionErrorResponse{
		Message:         err.Error(),
		CurrentStatus:   err.From.String(),
		RequestedStatus: err.To.String(),
		Allowed:         make([]string, 0, len(allowed)),
	}
	for _, s := range allowed {
		res.Allowed = append(res.Allowed, s.String())
	}
	return res
}

// Order
// swagger:model Order
type Order struct {
	ID             string      `json:"id"`
	OrderNumber    string      `json:"order_number"`
	CustomerEmail  string      `json:"customer_email"`
	Status         string      `json:"order_status"`
	TrackingNumber string      `json:"tracking_number,omitempty"`
	CarrierService string      `json:"carrier_service,omitempty"`
	Total          string      `json:"total"`
	Shipping       string      `json:"shipping"`
	OrderedAt      time.Time   `json:"ordered_at"`
	ShippedAt      *time.Time  `json:"shipped_at,omitempty"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Version        int         `json:"version"`
	Items          []OrderItem `json:"items"`
}

type OrderItem struct {
	CartItemID int64  `json:"cart_item_id"`
	ProductID  *int64 `json:"product_id,omitempty"`
	PartID     *int64 `json:"part_id,omitempty"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
}

func OrderEntityToJSON(o entities.Order) Order {
	order := Order{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerEmail:  o.CustomerEmail,
		Status:         o.Status.String(),
		TrackingNumber: o.TrackingNumber,
		CarrierService: o.CarrierService,
		Total:          formatCents(o.TotalCents),
		Shipping:       formatCents(o.ShippingCents),
		OrderedAt:      o.OrderedAt,
		ShippedAt:      o.ShippedAt,
		UpdatedAt:      o.UpdatedAt,
		Version:        o.Version,
		Items:          make([]OrderItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		order.Items = append(order.Items, OrderItem{
			CartItemID: it.CartItemID,
			ProductID:  it.ProductID,
			PartID:     it.PartID,
			Quantity:   it.Quantity,
			UnitPrice:  formatCents(it.UnitPriceCents),
		})
	}
	return order
}

// StatusChange
// swagger:model StatusChange
type StatusChange struct {
	From      string    `json:"from_status,omitempty"`
	To        string    `json:"to_status"`
	Forced    bool      `json:"forced"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func StatusHistoryToJSON(changes []entities.StatusChange) []StatusChange {
	res := make([]StatusChange, 0, len(changes))
	for _, c := range changes {
		res = append(res, StatusChange{
			From:      c.From.String(),
			To:        c.To.String(),
			Forced:    c.Forced,
			Source:    string(c.Source),
			CreatedAt: c.CreatedAt,
		})
	}
	return res
}

// RefreshResult
// swagger:model RefreshResult
type RefreshResult struct {
	OrderID        string `json:"order_id"`
	CarrierStatus  string `json:"carrier_status"`
	PreviousStatus string `json:"previous_status"`
	ProposedStatus string `json:"proposed_status"`
	Outcome        string `json:"outcome"`
}

func RefreshResultToJSON(r service.RefreshResult) RefreshResult {
	return RefreshResult{
		OrderID:        r.OrderID,
		CarrierStatus:  r.CarrierStatus,
		PreviousStatus: r.PreviousStatus.String(),
		ProposedStatus: r.ProposedStatus.String(),
		Outcome:        string(r.Outcome),
	}
}

// BulkResult
// swagger:model BulkResult
type BulkResult struct {
	Total     int             `json:"total"`
	Updated   int             `json:"updated"`
	Unchanged int             `json:"unchanged"`
	Rejected  int             `json:"rejected"`
	Failed    int             `json:"failed"`
	Errors    []BulkItemError `json:"errors"`
}

type BulkItemError struct {
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
}

func BulkResultToJSON(r service.BulkResult) BulkResult {
	res := BulkResult{
		Total:     r.Total,
		Updated:   r.Updated,
		Unchanged: r.Unchanged,
		Rejected:  r.Rejected,
		Failed:    r.Failed,
		Errors:    make([]BulkItemError, 0, len(r.Errors)),
	}
	for _, e := range r.Errors {
		res.Errors = append(res.Errors, BulkItemError{OrderID: e.OrderID, Error: e.Error})
	}
	return res
}

// ImportTrackingRequest
// swagger:model ImportTrackingRequest
type ImportTrackingRequest struct {
	Items []ImportTrackingItem `json:"items" validate:"required,min=1,max=500,dive"`
}

type ImportTrackingItem struct {
	OrderID        string `json:"order_id" validate:"required"`
	TrackingNumber string `json:"tracking_number" validate:"required,max=64"`
	CarrierService string `json:"carrier_service" validate:"omitempty,max=64"`
	SendEmail      bool   `json:"send_email"`
}

func (r ImportTrackingRequest) ToImports() []service.TrackingImport {
	items := make([]service.TrackingImport, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, service.TrackingImport{
			OrderID:        it.OrderID,
			TrackingNumber: it.TrackingNumber,
			CarrierService: it.CarrierService,
			SendEmail:      it.SendEmail,
		})
	}
	return items
}

// CartPricing
// swagger:model CartPricing
type CartPricing struct {
	CartID string            `json:"cart_id"`
	Lines  []CartPricingLine `json:"lines"`
	Total  string            `json:"total"`
}

type CartPricingLine struct {
	CartItemID     int64  `json:"cart_item_id"`
	Quantity       int    `json:"quantity"`
	EffectivePrice string `json:"effective_price"`
	LineTotal      string `json:"line_total"`
	Fallback       bool   `json:"fallback"`
}

func CartPricingToJSON(p service.CartPricing) CartPricing {
	res := CartPricing{
		CartID: p.CartID,
		Lines:  make([]CartPricingLine, 0, len(p.Lines)),
		Total:  p.Total.StringFixed(2),
	}
	for _, l := range p.Lines {
		res.Lines = append(res.Lines, CartPricingLine{
			CartItemID:     l.Line.Base().ID,
			Quantity:       l.Quantity(),
			EffectivePrice: l.EffectivePrice.StringFixed(2),
			LineTotal:      entities.CalculateCartTotal([]entities.PricedLine{l}).StringFixed(2),
			Fallback:       l.Fallback,
		})
	}
	return res
}

// CheckoutEvent is the payload of the checkout-completed topic.
type CheckoutEvent struct {
	CartID          string `json:"cart_id" validate:"required"`
	CustomerEmail   string `json:"customer_email" validate:"required,email"`
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
	ShippingCents   int64  `json:"shipping_cents" validate:"gte=0"`
}

func (e CheckoutEvent) ToEntity() entities.Checkout {
	return entities.Checkout{
		CartID:          e.CartID,
		CustomerEmail:   e.CustomerEmail,
		PaymentIntentID: e.PaymentIntentID,
		ShippingCents:   e.ShippingCents,
	}
}

// TrackingEvent is the payload of the carrier-tracking topic.
type TrackingEvent struct {
	TrackingNumber string `json:"tracking_number" validate:"required"`
	Status         string `json:"status" validate:"required"`
}

// Notification is published to the notification topic after a status change
// the customer should hear about.
type Notification struct {
	OrderID        string `json:"order_id"`
	OrderNumber    string `json:"order_number"`
	CustomerEmail  string `json:"customer_email"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	CarrierService string `json:"carrier_service,omitempty"`
}

func NotificationFromEntity(o entities.Order) Notification {
	return Notification{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerEmail:  o.CustomerEmail,
		Status:         o.Status.String(),
		TrackingNumber: o.TrackingNumber,
		CarrierService: o.CarrierService,
	}
}

func formatCents(cents int64) string {
	return entities.FromCents(cents).StringFixed(2)
}
