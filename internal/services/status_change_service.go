package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pizzeria/internal/models"
	"pizzeria/internal/repository"
	"pizzeria/pkg/metrics"

	"github.com/google/uuid"
)

// EventPublisher emits status change events to downstream consumers.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, payload any) error
}

type StatusChangedEvent struct {
	EventID     string             `json:"event_id"`
	OrderID     uint               `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	OldStatus   models.OrderStatus `json:"old_status"`
	NewStatus   models.OrderStatus `json:"new_status"`
	Automatic   bool               `json:"automatic"`
	ChangedBy   *uint              `json:"changed_by,omitempty"`
	ChangedAt   time.Time          `json:"changed_at"`
}

// Actor is the authenticated user requesting a manual change.
type Actor struct {
	UserID uint
	Role   models.UserRole
}

type NotificationSummary struct {
	Results []SendResult `json:"results"`
	Email   ChannelTally `json:"email"`
	SMS     ChannelTally `json:"sms"`
}

type StatusChangeResult struct {
	Decision      TransitionDecision  `json:"decision"`
	Order         *models.Order       `json:"order"`
	Notifications NotificationSummary `json:"notifications"`
}

type StatusChangeDeps struct {
	Orders     repository.OrderRepository
	History    *StatusHistory
	Settings   SettingsService
	Content    *ContentGenerator
	Transports TransportFactory
	// Events is optional.
	Events  EventPublisher
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Clock   func() time.Time

	CountryCode string
	// AdminEmail is used when the notification settings carry none.
	AdminEmail   string
	EnforceGraph bool
}

type StatusChangeService interface {
	ComputeValidNextStatuses(ctx context.Context, orderID uint) ([]models.OrderStatus, error)
	AttemptManualTransition(ctx context.Context, orderID uint, target models.OrderStatus, actor Actor) (*StatusChangeResult, error)
	ApplyTransition(ctx context.Context, order *models.Order, target models.OrderStatus, automatic bool, actorID *uint) (*models.Order, NotificationSummary, error)
	NotifyStatusChange(ctx context.Context, orderID uint, status models.OrderStatus) NotificationSummary
	GetStatusHistory(ctx context.Context, orderID uint) ([]models.StatusChangeRecord, error)
	TestEmailConfiguration(ctx context.Context) ConfigurationTestResult
	TestSMSConfiguration(ctx context.Context) ConfigurationTestResult
}

type statusChangeService struct {
	StatusChangeDeps
}

func NewStatusChangeService(deps StatusChangeDeps) StatusChangeService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &statusChangeService{StatusChangeDeps: deps}
}

func (s *statusChangeService) ComputeValidNextStatuses(ctx context.Context, orderID uint) ([]models.OrderStatus, error) {
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return GetNextValidStates(order.Status, order.DeliveryMethod), nil
}

// AttemptManualTransition checks the actor's permission, then the graph
// edge, and applies the change. A refused change is reported in the
// decision and is not an error.
func (s *statusChangeService) AttemptManualTransition(ctx context.Context, orderID uint, target models.OrderStatus, actor Actor) (*StatusChangeResult, error) {
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var decision TransitionDecision
	switch actor.Role {
	case models.RoleAdmin:
		decision = CanManuallyUpdateStatus(order.Status, target, actor.Role)
	case models.RoleDelivery:
		decision = CanDeliveryUpdateStatus(order.Status, target, order.DeliveryMethod)
	default:
		decision = deny("role %q cannot change order status", actor.Role)
	}
	if decision.Allowed && s.EnforceGraph && !IsValidTransition(order.Status, target, order.DeliveryMethod) {
		decision = deny("cannot move a %s order from %s to %s", order.DeliveryMethod, order.Status, target)
	}

	result := &StatusChangeResult{
		Decision:      decision,
		Order:         order,
		Notifications: NotificationSummary{Results: []SendResult{}},
	}
	if !decision.Allowed {
		s.Logger.Info("manual status change refused",
			"order_id", order.ID, "from", order.Status, "to", target, "user_id", actor.UserID, "reason", decision.Reason)
		return result, nil
	}

	actorID := actor.UserID
	updated, summary, err := s.ApplyTransition(ctx, order, target, false, &actorID)
	if err != nil {
		return nil, err
	}
	result.Order = updated
	result.Notifications = summary
	return result, nil
}

// ApplyTransition writes the new status only if the order still holds the
// status it was read with. History, events and notifications follow the
// committed write; their failures are logged and never undo it.
func (s *statusChangeService) ApplyTransition(ctx context.Context, order *models.Order, target models.OrderStatus, automatic bool, actorID *uint) (*models.Order, NotificationSummary, error) {
	from := order.Status
	updated, err := s.Orders.UpdateStatus(ctx, order.ID, from, target)
	if err != nil {
		return nil, NotificationSummary{}, err
	}
	now := s.Clock()

	record := &models.StatusChangeRecord{
		OrderID:   order.ID,
		OldStatus: from,
		NewStatus: target,
		ChangedAt: now,
		Automatic: automatic,
		ChangedBy: actorID,
	}
	if err := s.History.Record(ctx, record); err != nil {
		s.Logger.Error("status history not recorded", "order_id", order.ID, "error", err)
	}
	s.Metrics.ObserveTransition(string(from), string(target), automatic)
	s.Logger.Info("order status changed",
		"order_id", order.ID, "order_number", order.OrderNumber, "from", from, "to", target, "automatic", automatic)

	if s.Events != nil {
		event := StatusChangedEvent{
			EventID:     uuid.NewString(),
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			OldStatus:   from,
			NewStatus:   target,
			Automatic:   automatic,
			ChangedBy:   actorID,
			ChangedAt:   now,
		}
		if err := s.Events.PublishJSON(ctx, fmt.Sprintf("%d", order.ID), event); err != nil {
			s.Logger.Warn("status event not published", "order_id", order.ID, "error", err)
		}
	}

	summary := s.NotifyStatusChange(ctx, order.ID, target)
	return updated, summary, nil
}

// NotifyStatusChange reloads the order and the notification settings and
// sends every message the status calls for.
func (s *statusChangeService) NotifyStatusChange(ctx context.Context, orderID uint, status models.OrderStatus) NotificationSummary {
	summary := NotificationSummary{Results: []SendResult{}}

	dispatcher, settings, err := s.newDispatcher(ctx)
	if err != nil {
		s.Logger.Error("notification settings unavailable", "order_id", orderID, "error", err)
		return summary
	}
	if !dispatcher.ShouldNotifyForStatus(status) {
		return summary
	}

	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			s.Logger.Warn("order not found for notification", "order_id", orderID, "status", status)
		} else {
			s.Logger.Error("failed to load order for notification", "order_id", orderID, "error", err)
		}
		return summary
	}

	adminEmail := settings.AdminEmail
	if adminEmail == "" {
		adminEmail = s.AdminEmail
	}
	msgs := s.Content.BuildMessages(order, status, adminEmail, s.Clock())
	if len(msgs) == 0 {
		return summary
	}

	dispatcher.Initialize(ctx)
	summary.Results = dispatcher.SendBatch(ctx, msgs)
	tally := Tally(summary.Results)
	summary.Email = tally[ChannelEmail]
	summary.SMS = tally[ChannelSMS]

	s.Logger.Info("notifications dispatched",
		"order_id", orderID, "status", status,
		"email_sent", summary.Email.Sent, "email_failed", summary.Email.Failed,
		"sms_sent", summary.SMS.Sent, "sms_failed", summary.SMS.Failed)
	return summary
}

func (s *statusChangeService) GetStatusHistory(ctx context.Context, orderID uint) ([]models.StatusChangeRecord, error) {
	if _, err := s.Orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.History.Query(ctx, orderID)
}

func (s *statusChangeService) TestEmailConfiguration(ctx context.Context) ConfigurationTestResult {
	dispatcher, _, err := s.newDispatcher(ctx)
	if err != nil {
		return ConfigurationTestResult{Error: err.Error()}
	}
	return dispatcher.TestEmailConfiguration(ctx)
}

func (s *statusChangeService) TestSMSConfiguration(ctx context.Context) ConfigurationTestResult {
	dispatcher, _, err := s.newDispatcher(ctx)
	if err != nil {
		return ConfigurationTestResult{Error: err.Error()}
	}
	return dispatcher.TestSMSConfiguration(ctx)
}

// newDispatcher builds a dispatcher from freshly loaded settings.
func (s *statusChangeService) newDispatcher(ctx context.Context) (*NotificationDispatcher, *models.NotificationSettings, error) {
	settings, err := s.Settings.GetNotificationSettings(ctx)
	if err != nil {
		return nil, nil, err
	}
	return NewNotificationDispatcher(*settings, s.Transports, s.CountryCode, s.Logger, s.Metrics), settings, nil
}
