package entities

import "fmt"

// OrderStatus is a step of the order lifecycle. The order between statuses
// is defined only by the transition table below.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusPaid           OrderStatus = "paid"
	StatusPrinting       OrderStatus = "printing"
	StatusPrinted        OrderStatus = "printed"
	StatusAssembling     OrderStatus = "assembling"
	StatusPackaged       OrderStatus = "packaged"
	StatusShipped        OrderStatus = "shipped"
	StatusInTransit      OrderStatus = "in_transit"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCanceled       OrderStatus = "canceled"
	StatusReturned       OrderStatus = "returned"
)

// AllStatuses lists the vocabulary in pipeline order.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusPaid,
	StatusPrinting,
	StatusPrinted,
	StatusAssembling,
	StatusPackaged,
	StatusShipped,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCanceled,
	StatusReturned,
}

// paid -> packaged and paid -> shipped skip manufacturing on purpose: admins
// fast-forward orders that need no printing.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusPaid, StatusCanceled},
	StatusPaid:           {StatusPrinting, StatusPackaged, StatusShipped, StatusCanceled},
	StatusPrinting:       {StatusPrinted, StatusCanceled},
	StatusPrinted:        {StatusAssembling, StatusCanceled},
	StatusAssembling:     {StatusPackaged, StatusCanceled},
	StatusPackaged:       {StatusShipped, StatusCanceled},
	StatusShipped:        {StatusInTransit, StatusOutForDelivery, StatusDelivered, StatusCanceled, StatusReturned},
	StatusInTransit:      {StatusOutForDelivery, StatusDelivered, StatusReturned},
	StatusOutForDelivery: {StatusDelivered, StatusReturned},
	StatusDelivered:      {StatusReturned},
	StatusCanceled:       {},
	StatusReturned:       {},
}

// ParseOrderStatus converts a persisted or requested value into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	return IsValidTransition(s, to)
}

// IsValidTransition is defined for every pair of strings. An unknown from
// status has no outgoing edges, so it is rejected like a missing edge.
func IsValidTransition(from, to OrderStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the outgoing edges of from.
func AllowedTransitions(from OrderStatus) []OrderStatus {
	next := transitions[from]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}
