package services

import (
	"context"
	"errors"
	"testing"

	"pizzeria/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaultsWhenMissing(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{})
	ctx := context.Background()

	n, err := svc.GetNotificationSettings(ctx)
	require.NoError(t, err)
	assert.False(t, n.NotificationsEnabled)
	assert.False(t, n.EmailConfigured())
	assert.False(t, n.SMSConfigured())

	p, err := svc.GetPromotionSettings(ctx)
	require.NoError(t, err)
	assert.False(t, p.Enabled)
	assert.NoError(t, p.Validate())
}

func TestUpdateNotificationSettingsValidates(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo)

	bad := allChannelsSettings()
	bad.SMTPPort = 0
	bad.TwilioPhoneNumber = "5550000"
	err := svc.UpdateNotificationSettings(context.Background(), &bad)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, err.Error(), "smtp_port")
	assert.Contains(t, err.Error(), "E.164")
	assert.Nil(t, repo.notifications)
}

func TestUpdateSettingsReplacesWholesale(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo)
	ctx := context.Background()

	s := allChannelsSettings()
	require.NoError(t, svc.UpdateNotificationSettings(ctx, &s))
	got, err := svc.GetNotificationSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.SMTPHost, got.SMTPHost)
	assert.True(t, got.NotificationsEnabled)

	promo := models.PromotionSettings{Enabled: true, DeliveryEnabled: true, DeliveryBuyCount: 3, DeliveryGetCount: 1}
	require.NoError(t, svc.UpdatePromotionSettings(ctx, &promo))
	gotPromo, err := svc.GetPromotionSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, gotPromo.DeliveryBuyCount)

	invalid := models.PromotionSettings{Enabled: true, PickupEnabled: true}
	assert.Error(t, svc.UpdatePromotionSettings(ctx, &invalid))
}
