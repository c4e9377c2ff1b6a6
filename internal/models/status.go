package models

type OrderStatus string

const (
	OrderPending       OrderStatus = "pending"
	OrderPaymentFailed OrderStatus = "payment_failed"
	OrderConfirmed     OrderStatus = "confirmed"
	OrderPreparing     OrderStatus = "preparing"
	OrderReady         OrderStatus = "ready"
	OrderDelivering    OrderStatus = "delivering"
	OrderCompleted     OrderStatus = "completed"
	OrderCancelled     OrderStatus = "cancelled"
)

// AllOrderStatuses returns the closed status set in lifecycle order.
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderPending,
		OrderPaymentFailed,
		OrderConfirmed,
		OrderPreparing,
		OrderReady,
		OrderDelivering,
		OrderCompleted,
		OrderCancelled,
	}
}

func (s OrderStatus) IsValid() bool {
	_, ok := lookupStatusInfo(s)
	return ok
}

// IsTerminal reports whether no further transition may leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// StatusDisplay is the static presentation data attached to each status.
type StatusDisplay struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// StatusInfo returns the display data for s. Unknown values get a neutral
// entry labelled with the raw value.
func StatusInfo(s OrderStatus) StatusDisplay {
	if info, ok := lookupStatusInfo(s); ok {
		return info
	}
	return StatusDisplay{Label: string(s), Color: "gray", Description: "Unknown status"}
}

func lookupStatusInfo(s OrderStatus) (StatusDisplay, bool) {
	switch s {
	case OrderPending:
		return StatusDisplay{Label: "Pending", Color: "yellow", Description: "Awaiting payment confirmation"}, true
	case OrderPaymentFailed:
		return StatusDisplay{Label: "Payment failed", Color: "red", Description: "The payment could not be completed"}, true
	case OrderConfirmed:
		return StatusDisplay{Label: "Confirmed", Color: "blue", Description: "Order confirmed and sent to the kitchen"}, true
	case OrderPreparing:
		return StatusDisplay{Label: "Preparing", Color: "orange", Description: "Your pizzas are being prepared"}, true
	case OrderReady:
		return StatusDisplay{Label: "Ready", Color: "green", Description: "Order ready for pickup or dispatch"}, true
	case OrderDelivering:
		return StatusDisplay{Label: "Out for delivery", Color: "purple", Description: "The courier is on the way"}, true
	case OrderCompleted:
		return StatusDisplay{Label: "Completed", Color: "gray", Description: "Order delivered or picked up"}, true
	case OrderCancelled:
		return StatusDisplay{Label: "Cancelled", Color: "red", Description: "Order cancelled"}, true
	}
	return StatusDisplay{}, false
}
