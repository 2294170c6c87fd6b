package entities

// Carrier statuses reported by the shipment tracking provider.
const (
	CarrierPreTransit     = "pre_transit"
	CarrierInTransit      = "in_transit"
	CarrierOutForDelivery = "out_for_delivery"
	CarrierDelivered      = "delivered"
	CarrierReturnToSender = "return_to_sender"
	CarrierFailure        = "failure"
	CarrierCancelled      = "cancelled"
	CarrierError          = "error"
	CarrierUnknown        = "unknown"
)

var carrierStatuses = map[string]OrderStatus{
	CarrierPreTransit:     StatusShipped,
	CarrierInTransit:      StatusInTransit,
	CarrierOutForDelivery: StatusOutForDelivery,
	CarrierDelivered:      StatusDelivered,
	CarrierReturnToSender: StatusReturned,
	CarrierFailure:        StatusReturned,
	CarrierCancelled:      StatusCanceled,
	CarrierError:          StatusShipped,
	CarrierUnknown:        StatusShipped,
}

// MapTrackingStatusToOrderStatus proposes an order status for a carrier
// status. Matching is exact and case-sensitive; anything unrecognized maps to
// shipped so a refresh never fails on an unfamiliar string. The result must
// still pass IsValidTransition before it is applied.
func MapTrackingStatusToOrderStatus(trackingStatus string) OrderStatus {
	if status, ok := carrierStatuses[trackingStatus]; ok {
		return status
	}
	return StatusShipped
}
