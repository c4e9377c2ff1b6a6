package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pizzeria/internal/models"
	"pizzeria/internal/repository"
	"pizzeria/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderService(f *orchestratorFixture, now time.Time) *orderService {
	s := NewOrderService(f.orders, NewSettingsService(f.settings), f.svc, dec("3.50"), DefaultPrepTimeConfig(), logging.Discard()).(*orderService)
	s.clock = fixedClock(now)
	return s
}

func checkout(method models.DeliveryMethod) CheckoutInput {
	return CheckoutInput{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		CustomerPhone:   "555 0100",
		DeliveryAddress: "12 Via Roma",
		DeliveryMethod:  method,
		Lines: []CartLine{
			pizzaLine("Margherita", "10.00", 2),
			pizzaLine("Diavola", "12.00", 1),
			{ProductID: 50, Name: "Tiramisu", CategorySlug: "desserts", BasePrice: dec("5.00"), Quantity: 1},
		},
	}
}

func TestQuoteCartUsesStoredPromotion(t *testing.T) {
	f := newOrchestrator()
	promo := deliveryPromo(2, 1)
	f.settings.promotion = &promo
	svc := newTestOrderService(f, baseTime)

	totals, err := svc.QuoteCart(context.Background(), checkout(models.DeliveryMethodDelivery).Lines, models.DeliveryMethodDelivery)
	require.NoError(t, err)

	assert.True(t, dec("37").Equal(totals.Subtotal), totals.Subtotal.String())
	assert.True(t, dec("10").Equal(totals.Discount), totals.Discount.String())
	assert.True(t, dec("30.50").Equal(totals.Total), totals.Total.String())
	require.NotNil(t, totals.Promotion)

	pickup, err := svc.QuoteCart(context.Background(), checkout(models.DeliveryMethodPickup).Lines, models.DeliveryMethodPickup)
	require.NoError(t, err)
	assert.Nil(t, pickup.Promotion)
	assert.True(t, pickup.DeliveryFee.IsZero())

	_, err = svc.QuoteCart(context.Background(), nil, models.DeliveryMethod("drone"))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestCreateOrderSnapshotsCart(t *testing.T) {
	f := newOrchestrator()
	svc := newTestOrderService(f, baseTime)

	order, err := svc.CreateOrder(context.Background(), checkout(models.DeliveryMethodDelivery))
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	require.NotNil(t, order.DeliveryAddress)
	assert.Equal(t, "12 Via Roma", *order.DeliveryAddress)
	require.Len(t, order.Items, 3)
	assert.True(t, dec("20").Equal(order.Items[0].TotalPrice))
	assert.True(t, order.Items[0].IsPizza())
	assert.False(t, order.Items[2].IsPizza())
	assert.True(t, order.Subtotal.Sub(order.Discount).Add(order.DeliveryFee).Equal(order.Total))
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newTestOrderService(newOrchestrator(), baseTime)

	in := checkout(models.DeliveryMethodDelivery)
	in.DeliveryAddress = ""
	in.CustomerEmail = "not-an-email"
	in.Lines[0].Quantity = 0

	_, err := svc.CreateOrder(context.Background(), in)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, strings.HasPrefix(err.Error(), "invalid request: "))
	assert.NotContains(t, err.Error(), "settings")
	assert.Contains(t, err.Error(), "delivery_address")
	assert.Contains(t, err.Error(), "customer_email")
	assert.Contains(t, err.Error(), "quantity")
}

func TestRecordPaymentResult(t *testing.T) {
	f := newOrchestrator(
		agedOrder(1, models.OrderPending, time.Minute, baseTime),
		agedOrder(2, models.OrderPending, time.Minute, baseTime),
		agedOrder(3, models.OrderPreparing, time.Minute, baseTime),
	)
	svc := newTestOrderService(f, baseTime)
	ctx := context.Background()

	paid, err := svc.RecordPaymentResult(ctx, 1, true)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, paid.Status)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)

	failed, err := svc.RecordPaymentResult(ctx, 2, false)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaymentFailed, failed.Status)

	later, err := svc.RecordPaymentResult(ctx, 3, true)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPreparing, later.Status)

	require.Len(t, f.history.records, 2)
	assert.True(t, f.history.records[0].Automatic)

	_, err = svc.RecordPaymentResult(ctx, 404, true)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestRecordPaymentResultRetriesFailedPayment(t *testing.T) {
	f := newOrchestrator(
		agedOrder(4, models.OrderPaymentFailed, time.Minute, baseTime),
		agedOrder(5, models.OrderPaymentFailed, time.Minute, baseTime),
	)
	svc := newTestOrderService(f, baseTime)
	ctx := context.Background()

	retried, err := svc.RecordPaymentResult(ctx, 4, true)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, retried.Status)
	assert.Equal(t, models.PaymentStatusPaid, retried.PaymentStatus)

	require.Len(t, f.history.records, 2)
	assert.Equal(t, models.OrderPaymentFailed, f.history.records[0].OldStatus)
	assert.Equal(t, models.OrderPending, f.history.records[0].NewStatus)
	assert.True(t, f.history.records[0].Automatic)
	assert.Equal(t, models.OrderPending, f.history.records[1].OldStatus)
	assert.Equal(t, models.OrderConfirmed, f.history.records[1].NewStatus)

	stillFailed, err := svc.RecordPaymentResult(ctx, 5, false)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaymentFailed, stillFailed.Status)
	assert.Len(t, f.history.records, 2)
}

func TestEstimateRemainingTime(t *testing.T) {
	f := newOrchestrator(agedOrder(1, models.OrderConfirmed, 2*time.Minute, baseTime))
	svc := newTestOrderService(f, baseTime)

	minutes, ok, err := svc.EstimateRemainingTime(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, minutes)
}
