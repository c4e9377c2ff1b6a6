package services

import (
	"fmt"
	"strings"
	"time"

	"pizzeria/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

type Audience string

const (
	AudienceCustomer Audience = "customer"
	AudienceAdmin    Audience = "admin"
)

// NotificationMessage is built per transition and handed straight to the
// dispatcher. It is never persisted.
type NotificationMessage struct {
	ID          string             `json:"id"`
	Channel     Channel            `json:"channel"`
	Audience    Audience           `json:"audience"`
	Recipient   string             `json:"recipient"`
	Subject     string             `json:"subject,omitempty"`
	Body        string             `json:"body"`
	OrderID     uint               `json:"order_id"`
	Status      models.OrderStatus `json:"status"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// NotificationContent holds the rendered variants for one status. Admin
// fields are empty for statuses the kitchen does not need to hear about.
type NotificationContent struct {
	EmailSubject string
	EmailBody    string
	SMSBody      string
	AdminSubject string
	AdminBody    string
}

func (c NotificationContent) HasAdminAlert() bool {
	return c.AdminBody != ""
}

type ContentGenerator struct {
	ShopName       string
	CurrencySymbol string
}

func NewContentGenerator(shopName, currencySymbol string) *ContentGenerator {
	return &ContentGenerator{ShopName: shopName, CurrencySymbol: currencySymbol}
}

func (g *ContentGenerator) money(d decimal.Decimal) string {
	return g.CurrencySymbol + d.StringFixed(2)
}

func (g *ContentGenerator) signature() string {
	return fmt.Sprintf("\n\nBest regards,\nThe %s team", g.ShopName)
}

func deliveryAddress(o *models.Order) string {
	if o.DeliveryAddress == nil || strings.TrimSpace(*o.DeliveryAddress) == "" {
		return "your address"
	}
	return *o.DeliveryAddress
}

func customerName(o *models.Order) string {
	if name := strings.TrimSpace(o.CustomerName); name != "" {
		return name
	}
	return "there"
}

// Generate renders the email, SMS and admin variants for order entering
// status.
func (g *ContentGenerator) Generate(o *models.Order, status models.OrderStatus) NotificationContent {
	info := models.StatusInfo(status)
	c := NotificationContent{
		EmailSubject: fmt.Sprintf("%s - Order #%s: %s", g.ShopName, o.OrderNumber, info.Label),
		EmailBody:    fmt.Sprintf("Hello %s,\n\n", customerName(o)) + g.emailBody(o, status) + g.signature(),
		SMSBody:      fmt.Sprintf("%s: %s", g.ShopName, g.smsBody(o, status)),
	}
	c.AdminSubject, c.AdminBody = g.adminAlert(o, status)
	return c
}

func (g *ContentGenerator) emailBody(o *models.Order, status models.OrderStatus) string {
	total := g.money(o.Total)

	switch status {
	case models.OrderConfirmed:
		next := "You can pick it up at our shop once it is ready, we will let you know."
		if o.IsDelivery() {
			next = fmt.Sprintf("It will be delivered to %s.", deliveryAddress(o))
		}
		return fmt.Sprintf("Thank you for your order #%s! Your payment has been received and your order is confirmed.\n\n%s\n\nOrder total: %s",
			o.OrderNumber, next, total)
	case models.OrderPreparing:
		next := "We will let you know as soon as it is ready for pickup."
		if o.IsDelivery() {
			next = "We will let you know as soon as it leaves the kitchen."
		}
		return fmt.Sprintf("Good news! Our pizzaiolos have started preparing your order #%s.\n\n%s", o.OrderNumber, next)
	case models.OrderReady:
		if o.IsDelivery() {
			return fmt.Sprintf("Your order #%s is ready and will be handed to our courier shortly.\n\nDelivery address: %s",
				o.OrderNumber, deliveryAddress(o))
		}
		return fmt.Sprintf("Your order #%s is ready! You can pick it up at %s now.\n\nPlease have your order number at hand. Amount to collect: %s",
			o.OrderNumber, g.ShopName, total)
	case models.OrderDelivering:
		return fmt.Sprintf("Your order #%s is on its way to %s!\n\nOur courier should arrive in about 25 minutes.",
			o.OrderNumber, deliveryAddress(o))
	case models.OrderCompleted:
		done := "Thank you for picking up your order"
		if o.IsDelivery() {
			done = "Your order has been delivered"
		}
		return fmt.Sprintf("%s (#%s). Enjoy your meal!\n\nWe hope to see you again soon.", done, o.OrderNumber)
	case models.OrderCancelled:
		return fmt.Sprintf("We are sorry, your order #%s has been cancelled.\n\nIf you have already been charged, a refund of %s will be issued to your original payment method. Reply to this email if you have any questions.",
			o.OrderNumber, total)
	case models.OrderPaymentFailed:
		return fmt.Sprintf("Unfortunately the payment for your order #%s (%s) could not be processed, so the order has not been sent to the kitchen.\n\nPlease try again or choose another payment method.",
			o.OrderNumber, total)
	}

	info := models.StatusInfo(status)
	return fmt.Sprintf("The status of your order #%s is now: %s.\n\n%s.", o.OrderNumber, info.Label, info.Description)
}

func (g *ContentGenerator) smsBody(o *models.Order, status models.OrderStatus) string {
	switch status {
	case models.OrderConfirmed:
		return fmt.Sprintf("your order #%s is confirmed. Total %s.", o.OrderNumber, g.money(o.Total))
	case models.OrderPreparing:
		return fmt.Sprintf("your order #%s is being prepared.", o.OrderNumber)
	case models.OrderReady:
		if o.IsDelivery() {
			return fmt.Sprintf("your order #%s is ready and will leave with our courier shortly.", o.OrderNumber)
		}
		return fmt.Sprintf("your order #%s is ready for pickup.", o.OrderNumber)
	case models.OrderDelivering:
		return fmt.Sprintf("your order #%s is on its way, arrival in about 25 min.", o.OrderNumber)
	case models.OrderCompleted:
		return fmt.Sprintf("thank you for your order #%s, enjoy your meal!", o.OrderNumber)
	case models.OrderCancelled:
		return fmt.Sprintf("your order #%s has been cancelled.", o.OrderNumber)
	case models.OrderPaymentFailed:
		return fmt.Sprintf("payment for order #%s failed, please try again.", o.OrderNumber)
	}
	return fmt.Sprintf("order #%s status: %s.", o.OrderNumber, models.StatusInfo(status).Label)
}

func (g *ContentGenerator) adminAlert(o *models.Order, status models.OrderStatus) (subject, body string) {
	var headline string
	switch status {
	case models.OrderConfirmed:
		subject = fmt.Sprintf("New order #%s", o.OrderNumber)
		headline = fmt.Sprintf("New confirmed order #%s.", o.OrderNumber)
	case models.OrderCancelled:
		subject = fmt.Sprintf("Order #%s cancelled", o.OrderNumber)
		headline = fmt.Sprintf("Order #%s has been cancelled.", o.OrderNumber)
	case models.OrderPaymentFailed:
		subject = fmt.Sprintf("Payment failed for order #%s", o.OrderNumber)
		headline = fmt.Sprintf("Payment failed for order #%s.", o.OrderNumber)
	default:
		return "", ""
	}

	method := "Pickup"
	if o.IsDelivery() {
		method = "Delivery to " + deliveryAddress(o)
	}
	phone := o.CustomerPhone
	if phone == "" {
		phone = "-"
	}

	var b strings.Builder
	b.WriteString(headline)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Customer: %s", o.CustomerName)
	if o.CustomerEmail != "" {
		fmt.Fprintf(&b, " <%s>", o.CustomerEmail)
	}
	fmt.Fprintf(&b, "\nPhone: %s\nDelivery method: %s\nTotal: %s", phone, method, g.money(o.Total))
	if o.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", o.Notes)
	}
	return subject, b.String()
}

// BuildMessages turns the content for status into addressed messages. A
// customer without email or phone and a non-admin status yields none.
func (g *ContentGenerator) BuildMessages(o *models.Order, status models.OrderStatus, adminEmail string, now time.Time) []NotificationMessage {
	content := g.Generate(o, status)
	msgs := []NotificationMessage{}

	newMessage := func(ch Channel, aud Audience, to, subject, body string) NotificationMessage {
		return NotificationMessage{
			ID:          uuid.NewString(),
			Channel:     ch,
			Audience:    aud,
			Recipient:   to,
			Subject:     subject,
			Body:        body,
			OrderID:     o.ID,
			Status:      status,
			GeneratedAt: now,
		}
	}

	if email := strings.TrimSpace(o.CustomerEmail); email != "" {
		msgs = append(msgs, newMessage(ChannelEmail, AudienceCustomer, email, content.EmailSubject, content.EmailBody))
	}
	if phone := strings.TrimSpace(o.CustomerPhone); phone != "" {
		msgs = append(msgs, newMessage(ChannelSMS, AudienceCustomer, phone, "", content.SMSBody))
	}
	if content.HasAdminAlert() && strings.TrimSpace(adminEmail) != "" {
		msgs = append(msgs, newMessage(ChannelEmail, AudienceAdmin, strings.TrimSpace(adminEmail), content.AdminSubject, content.AdminBody))
	}
	return msgs
}
