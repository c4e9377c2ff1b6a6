package models

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// NotificationSettings is the single admin-editable row controlling
// outbound notifications. It is replaced wholesale on save.
type NotificationSettings struct {
	ID                   uint   `json:"id" gorm:"primaryKey"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	EmailEnabled         bool   `json:"email_enabled"`
	SMTPHost             string `json:"smtp_host"`
	SMTPPort             int    `json:"smtp_port"`
	SMTPSecure           bool   `json:"smtp_secure"`
	SMTPUser             string `json:"smtp_user"`
	SMTPPassword         string `json:"smtp_password"`
	SMTPFromName         string `json:"smtp_from_name"`
	SMTPFromEmail        string `json:"smtp_from_email"`
	SMSEnabled           bool   `json:"sms_enabled"`
	TwilioAccountSID     string `json:"twilio_account_sid"`
	TwilioAuthToken      string `json:"twilio_auth_token"`
	TwilioPhoneNumber    string `json:"twilio_phone_number"`
	AdminEmail           string `json:"admin_email"`

	NotifyOnPaymentFailed bool `json:"notify_on_payment_failed"`
	NotifyOnConfirmed     bool `json:"notify_on_confirmed"`
	NotifyOnPreparing     bool `json:"notify_on_preparing"`
	NotifyOnReady         bool `json:"notify_on_ready"`
	NotifyOnDelivering    bool `json:"notify_on_delivering"`
	NotifyOnCompleted     bool `json:"notify_on_completed"`
	NotifyOnCancelled     bool `json:"notify_on_cancelled"`

	UpdatedAt time.Time `json:"updated_at"`
}

// EmailConfigured reports whether the email channel has enough settings to
// attempt a connection.
func (s NotificationSettings) EmailConfigured() bool {
	return s.EmailEnabled && s.SMTPHost != "" && s.SMTPPort > 0 && s.SMTPFromEmail != ""
}

func (s NotificationSettings) SMSConfigured() bool {
	return s.SMSEnabled && s.TwilioAccountSID != "" && s.TwilioAuthToken != "" && s.TwilioPhoneNumber != ""
}

func (s NotificationSettings) Validate() error {
	var errs []error
	if s.EmailEnabled {
		if strings.TrimSpace(s.SMTPHost) == "" {
			errs = append(errs, errors.New("smtp_host is required when email is enabled"))
		}
		if s.SMTPPort <= 0 || s.SMTPPort > 65535 {
			errs = append(errs, fmt.Errorf("smtp_port %d is out of range", s.SMTPPort))
		}
		if _, err := mail.ParseAddress(s.SMTPFromEmail); err != nil {
			errs = append(errs, fmt.Errorf("smtp_from_email is invalid: %w", err))
		}
	}
	if s.SMSEnabled {
		if s.TwilioAccountSID == "" || s.TwilioAuthToken == "" {
			errs = append(errs, errors.New("twilio credentials are required when sms is enabled"))
		}
		if !strings.HasPrefix(s.TwilioPhoneNumber, "+") {
			errs = append(errs, errors.New("twilio_phone_number must be in E.164 format"))
		}
	}
	if s.AdminEmail != "" {
		if _, err := mail.ParseAddress(s.AdminEmail); err != nil {
			errs = append(errs, fmt.Errorf("admin_email is invalid: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PromotionSettings configures the "buy N get M free" pizza promotion per
// delivery method.
type PromotionSettings struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Enabled          bool      `json:"enabled"`
	DeliveryEnabled  bool      `json:"delivery_enabled"`
	DeliveryBuyCount int       `json:"delivery_buy_count"`
	DeliveryGetCount int       `json:"delivery_get_count"`
	PickupEnabled    bool      `json:"pickup_enabled"`
	PickupBuyCount   int       `json:"pickup_buy_count"`
	PickupGetCount   int       `json:"pickup_get_count"`
	Description      string    `json:"description"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ForMethod returns whether the promotion applies to m and its buy/get
// counts.
func (p PromotionSettings) ForMethod(m DeliveryMethod) (enabled bool, buy, get int) {
	switch m {
	case DeliveryMethodDelivery:
		return p.Enabled && p.DeliveryEnabled, p.DeliveryBuyCount, p.DeliveryGetCount
	case DeliveryMethodPickup:
		return p.Enabled && p.PickupEnabled, p.PickupBuyCount, p.PickupGetCount
	}
	return false, 0, 0
}

func (p PromotionSettings) Validate() error {
	var errs []error
	if p.DeliveryEnabled && (p.DeliveryBuyCount < 1 || p.DeliveryGetCount < 1) {
		errs = append(errs, errors.New("delivery buy and get counts must be at least 1"))
	}
	if p.PickupEnabled && (p.PickupBuyCount < 1 || p.PickupGetCount < 1) {
		errs = append(errs, errors.New("pickup buy and get counts must be at least 1"))
	}
	if p.DeliveryBuyCount < 0 || p.DeliveryGetCount < 0 || p.PickupBuyCount < 0 || p.PickupGetCount < 0 {
		errs = append(errs, errors.New("promotion counts cannot be negative"))
	}
	return errors.Join(errs...)
}
