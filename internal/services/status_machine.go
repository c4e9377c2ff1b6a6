package services

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"pizzeria/internal/models"
)

const (
	paymentTimeout         = 30 * time.Minute
	kitchenAckDelay        = 5 * time.Minute
	readyEstimate          = 5 * time.Minute
	deliveringEstimate     = 25 * time.Minute
	pendingPaymentEstimate = 2 * time.Minute

	pendingAlertAfter       = 15 * time.Minute
	preparingAlertGrace     = 10 * time.Minute
	readyPickupAlertAfter   = 30 * time.Minute
	readyDeliveryAlertAfter = 15 * time.Minute
	deliveringAlertAfter    = 45 * time.Minute
)

// TransitionDecision is the outcome of a transition check. Reason is set
// whenever Allowed is false.
type TransitionDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allow() TransitionDecision {
	return TransitionDecision{Allowed: true}
}

func deny(format string, args ...interface{}) TransitionDecision {
	return TransitionDecision{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// GetNextValidStates returns the statuses directly reachable from current
// for the given delivery method. Terminal or unknown inputs yield an empty
// slice.
func GetNextValidStates(current models.OrderStatus, method models.DeliveryMethod) []models.OrderStatus {
	if !current.IsValid() || !method.IsValid() {
		slog.Warn("cannot compute next states", "status", current, "delivery_method", method)
		return []models.OrderStatus{}
	}

	switch current {
	case models.OrderPending:
		return []models.OrderStatus{models.OrderConfirmed, models.OrderCancelled, models.OrderPaymentFailed}
	case models.OrderPaymentFailed:
		return []models.OrderStatus{models.OrderPending, models.OrderCancelled}
	case models.OrderConfirmed:
		return []models.OrderStatus{models.OrderPreparing, models.OrderCancelled}
	case models.OrderPreparing:
		return []models.OrderStatus{models.OrderReady, models.OrderCancelled}
	case models.OrderReady:
		if method == models.DeliveryMethodPickup {
			return []models.OrderStatus{models.OrderCompleted, models.OrderCancelled}
		}
		return []models.OrderStatus{models.OrderDelivering, models.OrderCancelled}
	case models.OrderDelivering:
		return []models.OrderStatus{models.OrderCompleted, models.OrderCancelled}
	case models.OrderCompleted, models.OrderCancelled:
		return []models.OrderStatus{}
	}
	return []models.OrderStatus{}
}

// IsValidTransition reports whether target is a direct edge from current.
func IsValidTransition(current, target models.OrderStatus, method models.DeliveryMethod) bool {
	for _, next := range GetNextValidStates(current, method) {
		if next == target {
			return true
		}
	}
	return false
}

// CanManuallyUpdateStatus applies the admin rule: role, terminal state and
// the readiness prerequisite for completion. It does not check the edge
// graph; callers combine it with IsValidTransition.
func CanManuallyUpdateStatus(current, target models.OrderStatus, role models.UserRole) TransitionDecision {
	if role != models.RoleAdmin {
		return deny("only administrators can change the order status")
	}
	if current.IsTerminal() {
		return deny("order is %s and can no longer change", current)
	}
	if !target.IsValid() {
		return deny("unknown status %q", target)
	}
	if target == models.OrderCompleted && current != models.OrderReady && current != models.OrderDelivering {
		return deny("order must be ready or out for delivery before it can be completed")
	}
	return allow()
}

// CanDeliveryUpdateStatus is the courier path: pick up a ready delivery
// order and mark it delivered.
func CanDeliveryUpdateStatus(current, target models.OrderStatus, method models.DeliveryMethod) TransitionDecision {
	if method != models.DeliveryMethodDelivery {
		return deny("couriers can only update delivery orders")
	}
	switch {
	case current == models.OrderReady && target == models.OrderDelivering:
		return allow()
	case current == models.OrderDelivering && target == models.OrderCompleted:
		return allow()
	}
	return deny("couriers cannot move an order from %s to %s", current, target)
}

// PrepTimeConfig parameterises EstimatePreparationTime.
type PrepTimeConfig struct {
	Base     time.Duration
	PerPizza time.Duration
	PerItem  time.Duration
}

func DefaultPrepTimeConfig() PrepTimeConfig {
	return PrepTimeConfig{Base: 15 * time.Minute, PerPizza: 3 * time.Minute, PerItem: time.Minute}
}

// EstimatePreparationTime grows with every unit ordered; pizzas weigh more
// than sides and drinks.
func EstimatePreparationTime(items []models.OrderItem, cfg PrepTimeConfig) time.Duration {
	total := cfg.Base
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if item.IsPizza() {
			total += time.Duration(item.Quantity) * cfg.PerPizza
		} else {
			total += time.Duration(item.Quantity) * cfg.PerItem
		}
	}
	return total
}

type AutoTransitionInput struct {
	Items         []models.OrderItem
	PaymentStatus string
	CreatedAt     time.Time
}

// GetAutomaticTransition returns the status the order should move to on
// its own at time now, if any.
func GetAutomaticTransition(current models.OrderStatus, in AutoTransitionInput, now time.Time, prep PrepTimeConfig) (models.OrderStatus, bool) {
	age := now.Sub(in.CreatedAt)

	switch current {
	case models.OrderPending:
		if in.PaymentStatus == models.PaymentStatusPaid {
			return models.OrderConfirmed, true
		}
		if age > paymentTimeout {
			return models.OrderCancelled, true
		}
	case models.OrderConfirmed:
		if age > kitchenAckDelay {
			return models.OrderPreparing, true
		}
	case models.OrderPreparing:
		if age > EstimatePreparationTime(in.Items, prep) {
			return models.OrderReady, true
		}
	}
	return "", false
}

// GetEstimatedRemainingTime returns whole minutes until the next expected
// transition, for display only.
func GetEstimatedRemainingTime(order *models.Order, now time.Time, prep PrepTimeConfig) (int, bool) {
	age := order.Age(now)

	switch order.Status {
	case models.OrderPending:
		return minutes(pendingPaymentEstimate), true
	case models.OrderConfirmed:
		return minutes(kitchenAckDelay - age), true
	case models.OrderPreparing:
		return minutes(EstimatePreparationTime(order.Items, prep) - age), true
	case models.OrderReady:
		if order.DeliveryMethod == models.DeliveryMethodPickup {
			return 0, true
		}
		return minutes(readyEstimate), true
	case models.OrderDelivering:
		return minutes(deliveringEstimate), true
	}
	return 0, false
}

func minutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Minutes()))
}

type AlertType string

const (
	AlertWarning AlertType = "warning"
	AlertError   AlertType = "error"
)

type AdminAlert struct {
	Type        AlertType          `json:"type"`
	Message     string             `json:"message"`
	OrderID     uint               `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	Status      models.OrderStatus `json:"status"`
}

// GetAdminAlerts flags orders that have stayed too long in one status.
// It never changes any order.
func GetAdminAlerts(orders []models.Order, now time.Time, prep PrepTimeConfig) []AdminAlert {
	alerts := []AdminAlert{}
	for i := range orders {
		o := &orders[i]
		age := o.Age(now)
		ageMin := int(age.Minutes())

		alert := func(t AlertType, format string, args ...interface{}) {
			alerts = append(alerts, AdminAlert{
				Type:        t,
				Message:     fmt.Sprintf(format, args...),
				OrderID:     o.ID,
				OrderNumber: o.OrderNumber,
				Status:      o.Status,
			})
		}

		switch o.Status {
		case models.OrderPending:
			if age > pendingAlertAfter {
				alert(AlertWarning, "Order #%s has been awaiting payment for %d minutes", o.OrderNumber, ageMin)
			}
		case models.OrderPreparing:
			if limit := EstimatePreparationTime(o.Items, prep) + preparingAlertGrace; age > limit {
				alert(AlertError, "Order #%s is overdue in the kitchen (%d minutes, expected %d)", o.OrderNumber, ageMin, int(limit.Minutes()))
			}
		case models.OrderReady:
			limit := readyDeliveryAlertAfter
			if o.DeliveryMethod == models.DeliveryMethodPickup {
				limit = readyPickupAlertAfter
			}
			if age > limit {
				alert(AlertWarning, "Order #%s has been ready for %d minutes", o.OrderNumber, ageMin)
			}
		case models.OrderDelivering:
			if age > deliveringAlertAfter {
				alert(AlertError, "Order #%s has been out for delivery for %d minutes", o.OrderNumber, ageMin)
			}
		}
	}
	return alerts
}
