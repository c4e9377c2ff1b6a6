package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"pizzeria/internal/models"
	"pizzeria/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutInput is a priced cart submitted for ordering. Payment happens
// outside this service and is reported through RecordPaymentResult.
type CheckoutInput struct {
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
	CustomerPhone   string                `json:"customer_phone"`
	DeliveryAddress string                `json:"delivery_address"`
	DeliveryMethod  models.DeliveryMethod `json:"delivery_method"`
	PaymentMethod   string                `json:"payment_method"`
	Notes           string                `json:"notes"`
	UserID          *uint                 `json:"user_id"`
	Lines           []CartLine            `json:"lines"`
}

func (in CheckoutInput) validate() error {
	var errs []error
	if strings.TrimSpace(in.CustomerName) == "" {
		errs = append(errs, errors.New("customer_name is required"))
	}
	if in.CustomerEmail == "" && in.CustomerPhone == "" {
		errs = append(errs, errors.New("an email address or a phone number is required"))
	}
	if in.CustomerEmail != "" {
		if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
			errs = append(errs, fmt.Errorf("customer_email is invalid: %w", err))
		}
	}
	if !in.DeliveryMethod.IsValid() {
		errs = append(errs, fmt.Errorf("delivery_method %q is invalid", in.DeliveryMethod))
	}
	if in.DeliveryMethod == models.DeliveryMethodDelivery && strings.TrimSpace(in.DeliveryAddress) == "" {
		errs = append(errs, errors.New("delivery_address is required for delivery orders"))
	}
	if len(in.Lines) == 0 {
		errs = append(errs, errors.New("cart is empty"))
	}
	for i, l := range in.Lines {
		if l.Quantity <= 0 {
			errs = append(errs, fmt.Errorf("line %d: quantity must be positive", i+1))
		}
		if l.UnitPrice().IsNegative() {
			errs = append(errs, fmt.Errorf("line %d: price cannot be negative", i+1))
		}
	}
	return errors.Join(errs...)
}

type OrderService interface {
	GetOrderByID(ctx context.Context, id uint) (*models.Order, error)
	GetActiveOrders(ctx context.Context) ([]models.Order, error)
	QuoteCart(ctx context.Context, lines []CartLine, method models.DeliveryMethod) (*CartTotals, error)
	EstimateRemainingTime(ctx context.Context, id uint) (minutes int, ok bool, err error)
	CreateOrder(ctx context.Context, in CheckoutInput) (*models.Order, error)
	RecordPaymentResult(ctx context.Context, id uint, paid bool) (*models.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	settings    SettingsService
	changes     StatusChangeService
	deliveryFee decimal.Decimal
	prep        PrepTimeConfig
	logger      *slog.Logger
	clock       func() time.Time
}

func NewOrderService(orderRepo repository.OrderRepository, settings SettingsService, changes StatusChangeService, deliveryFee decimal.Decimal, prep PrepTimeConfig, logger *slog.Logger) OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{
		orderRepo:   orderRepo,
		settings:    settings,
		changes:     changes,
		deliveryFee: deliveryFee,
		prep:        prep,
		logger:      logger,
		clock:       time.Now,
	}
}

func (s *orderService) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) GetActiveOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetActive(ctx)
}

// QuoteCart prices a cart with the promotion currently configured.
func (s *orderService) QuoteCart(ctx context.Context, lines []CartLine, method models.DeliveryMethod) (*CartTotals, error) {
	if !method.IsValid() {
		return nil, &ValidationError{Err: fmt.Errorf("delivery_method %q is invalid", method)}
	}
	promo, err := s.settings.GetPromotionSettings(ctx)
	if err != nil {
		return nil, err
	}
	totals := CalculateCartTotals(lines, method, *promo, s.deliveryFee)
	return &totals, nil
}

func (s *orderService) EstimateRemainingTime(ctx context.Context, id uint) (int, bool, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return 0, false, err
	}
	minutes, ok := GetEstimatedRemainingTime(order, s.clock(), s.prep)
	return minutes, ok, nil
}

// CreateOrder snapshots the cart into a pending order. Totals are computed
// here, never taken from the client.
func (s *orderService) CreateOrder(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}
	totals, err := s.QuoteCart(ctx, in.Lines, in.DeliveryMethod)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	order := &models.Order{
		OrderNumber:    newOrderNumber(now),
		CustomerName:   strings.TrimSpace(in.CustomerName),
		CustomerEmail:  strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:  strings.TrimSpace(in.CustomerPhone),
		DeliveryMethod: in.DeliveryMethod,
		Status:         models.OrderPending,
		PaymentMethod:  in.PaymentMethod,
		PaymentStatus:  models.PaymentStatusUnpaid,
		Subtotal:       totals.Subtotal,
		Discount:       totals.Discount,
		DeliveryFee:    totals.DeliveryFee,
		Total:          totals.Total,
		Notes:          in.Notes,
		UserID:         in.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = "card"
	}
	if in.DeliveryMethod == models.DeliveryMethodDelivery {
		addr := strings.TrimSpace(in.DeliveryAddress)
		order.DeliveryAddress = &addr
	}
	for _, l := range in.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:    l.ProductID,
			ProductName:  l.Name,
			CategorySlug: l.CategorySlug,
			BaseType:     l.BaseType,
			VariantID:    l.VariantID,
			VariantName:  l.VariantName,
			IsMenu:       l.IsMenu,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice(),
			TotalPrice:   l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	s.logger.Info("order created", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total.StringFixed(2))
	return order, nil
}

// RecordPaymentResult stores the gateway outcome and moves a pending order
// on. A successful retry on a payment_failed order returns it to pending and
// then confirms it. Other orders only get their payment status updated.
func (s *orderService) RecordPaymentResult(ctx context.Context, id uint, paid bool) (*models.Order, error) {
	paymentStatus := models.PaymentStatusFailed
	target := models.OrderPaymentFailed
	if paid {
		paymentStatus = models.PaymentStatusPaid
		target = models.OrderConfirmed
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, id, paymentStatus); err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if paid && order.Status == models.OrderPaymentFailed {
		order, _, err = s.changes.ApplyTransition(ctx, order, models.OrderPending, true, nil)
		if err != nil {
			return nil, err
		}
	}
	if order.Status != models.OrderPending {
		return order, nil
	}

	updated, _, err := s.changes.ApplyTransition(ctx, order, target, true, nil)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return now.Format("060102") + "-" + suffix
}
