package entities

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrVersionConflict   = errors.New("order was modified concurrently")
	ErrNoTrackingNumber  = errors.New("order has no tracking number")
	ErrDuplicateCheckout = errors.New("order for this payment already exists")
	ErrEmptyCart         = errors.New("cart is empty")

	ErrCarrierUnavailable = errors.New("carrier tracking unavailable")

	ErrPartNotFound     = errors.New("part not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidPromotion = errors.New("promotion must have exactly one of percentage or amount discount")
)

// TransitionError is returned when a requested status change is not an edge
// of the transition table.
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %q to %q", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
