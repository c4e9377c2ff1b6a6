package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"pizzeria/internal/models"
	"pizzeria/pkg/metrics"
	"pizzeria/pkg/sms"
)

var (
	errEmailNotConfigured = errors.New("email channel is not configured")
	errSMSNotConfigured   = errors.New("sms channel is not configured")
)

type SendResult struct {
	MessageID string   `json:"message_id"`
	Channel   Channel  `json:"channel"`
	Audience  Audience `json:"audience"`
	Recipient string   `json:"recipient"`
	Success   bool     `json:"success"`
	Error     string   `json:"error,omitempty"`
}

type ChannelTally struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// ConfigurationTestResult is returned by the admin dry-run checks.
type ConfigurationTestResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NotificationDispatcher delivers messages over the channels enabled in one
// settings snapshot. Build a new dispatcher when settings change.
type NotificationDispatcher struct {
	settings    models.NotificationSettings
	factory     TransportFactory
	countryCode string
	logger      *slog.Logger
	metrics     *metrics.Metrics

	once     sync.Once
	email    EmailTransport
	emailErr error
	sms      SMSTransport
	smsErr   error
}

func NewNotificationDispatcher(settings models.NotificationSettings, factory TransportFactory, countryCode string, logger *slog.Logger, m *metrics.Metrics) *NotificationDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationDispatcher{
		settings:    settings,
		factory:     factory,
		countryCode: countryCode,
		logger:      logger,
		metrics:     m,
	}
}

// Initialize builds the channel backends once. An email backend whose
// connectivity check fails is left disabled.
func (d *NotificationDispatcher) Initialize(ctx context.Context) {
	d.once.Do(func() {
		if d.settings.EmailConfigured() {
			t := d.factory.NewEmailTransport(d.settings)
			if err := t.Verify(ctx); err != nil {
				d.logger.Warn("email channel disabled", "smtp_host", d.settings.SMTPHost, "error", err)
				d.emailErr = err
			} else {
				d.email = t
			}
		} else {
			d.emailErr = errEmailNotConfigured
		}

		if d.settings.SMSConfigured() {
			d.sms = d.factory.NewSMSTransport(d.settings)
		} else {
			d.smsErr = errSMSNotConfigured
		}
	})
}

// ShouldNotifyForStatus requires the global switch and the flag of the
// given status. Pending orders never notify.
func (d *NotificationDispatcher) ShouldNotifyForStatus(status models.OrderStatus) bool {
	s := d.settings
	if !s.NotificationsEnabled {
		return false
	}
	switch status {
	case models.OrderPending:
		return false
	case models.OrderPaymentFailed:
		return s.NotifyOnPaymentFailed
	case models.OrderConfirmed:
		return s.NotifyOnConfirmed
	case models.OrderPreparing:
		return s.NotifyOnPreparing
	case models.OrderReady:
		return s.NotifyOnReady
	case models.OrderDelivering:
		return s.NotifyOnDelivering
	case models.OrderCompleted:
		return s.NotifyOnCompleted
	case models.OrderCancelled:
		return s.NotifyOnCancelled
	}
	return false
}

// Send delivers one message. Failures are reported in the result, never
// returned as errors.
func (d *NotificationDispatcher) Send(ctx context.Context, msg NotificationMessage) SendResult {
	d.Initialize(ctx)

	res := SendResult{MessageID: msg.ID, Channel: msg.Channel, Audience: msg.Audience, Recipient: msg.Recipient}
	fail := func(err error) SendResult {
		res.Error = err.Error()
		d.metrics.ObserveNotification(string(msg.Channel), false)
		d.logger.Warn("notification not sent",
			"order_id", msg.OrderID, "status", msg.Status, "channel", msg.Channel, "recipient", res.Recipient, "error", res.Error)
		return res
	}

	if !d.ShouldNotifyForStatus(msg.Status) {
		return fail(fmt.Errorf("notifications are disabled for status %s", msg.Status))
	}

	var err error
	switch msg.Channel {
	case ChannelEmail:
		if d.email == nil {
			return fail(d.emailErr)
		}
		err = d.email.Send(ctx, msg.Recipient, msg.Subject, msg.Body)
	case ChannelSMS:
		if d.sms == nil {
			return fail(d.smsErr)
		}
		res.Recipient = sms.NormalizePhone(msg.Recipient, d.countryCode)
		err = d.sms.Send(ctx, res.Recipient, msg.Body)
	default:
		err = fmt.Errorf("unknown channel %q", msg.Channel)
	}
	if err != nil {
		return fail(err)
	}

	res.Success = true
	d.metrics.ObserveNotification(string(msg.Channel), true)
	return res
}

// SendBatch sends every message and returns one result per message in
// input order. A failure never stops the batch.
func (d *NotificationDispatcher) SendBatch(ctx context.Context, msgs []NotificationMessage) []SendResult {
	results := make([]SendResult, 0, len(msgs))
	for _, msg := range msgs {
		results = append(results, d.Send(ctx, msg))
	}
	return results
}

func Tally(results []SendResult) map[Channel]ChannelTally {
	tally := map[Channel]ChannelTally{}
	for _, r := range results {
		t := tally[r.Channel]
		if r.Success {
			t.Sent++
		} else {
			t.Failed++
		}
		tally[r.Channel] = t
	}
	return tally
}

func (d *NotificationDispatcher) TestEmailConfiguration(ctx context.Context) ConfigurationTestResult {
	if !d.settings.EmailConfigured() {
		return ConfigurationTestResult{Error: "email is disabled or the SMTP settings are incomplete"}
	}
	d.Initialize(ctx)
	if d.email == nil {
		return ConfigurationTestResult{Error: d.emailErr.Error()}
	}
	return ConfigurationTestResult{Success: true}
}

func (d *NotificationDispatcher) TestSMSConfiguration(ctx context.Context) ConfigurationTestResult {
	if !d.settings.SMSConfigured() {
		return ConfigurationTestResult{Error: "sms is disabled or the provider credentials are incomplete"}
	}
	d.Initialize(ctx)
	if d.sms == nil {
		return ConfigurationTestResult{Error: d.smsErr.Error()}
	}
	if err := d.sms.Verify(ctx); err != nil {
		return ConfigurationTestResult{Error: err.Error()}
	}
	return ConfigurationTestResult{Success: true}
}
