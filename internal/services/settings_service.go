package services

import (
	"context"
	"errors"
	"fmt"

	"pizzeria/internal/models"
	"pizzeria/internal/repository"
)

// ValidationError wraps a request payload rejected before it reaches storage.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DefaultNotificationSettings has every channel off and every status flag on,
// so enabling a channel is the only step needed to start sending.
func DefaultNotificationSettings() *models.NotificationSettings {
	return &models.NotificationSettings{
		SMTPPort:              587,
		NotifyOnPaymentFailed: true,
		NotifyOnConfirmed:     true,
		NotifyOnPreparing:     true,
		NotifyOnReady:         true,
		NotifyOnDelivering:    true,
		NotifyOnCompleted:     true,
		NotifyOnCancelled:     true,
	}
}

func DefaultPromotionSettings() *models.PromotionSettings {
	return &models.PromotionSettings{
		DeliveryBuyCount: 2,
		DeliveryGetCount: 1,
		PickupBuyCount:   1,
		PickupGetCount:   1,
	}
}

type SettingsService interface {
	GetNotificationSettings(ctx context.Context) (*models.NotificationSettings, error)
	UpdateNotificationSettings(ctx context.Context, settings *models.NotificationSettings) error
	GetPromotionSettings(ctx context.Context) (*models.PromotionSettings, error)
	UpdatePromotionSettings(ctx context.Context, settings *models.PromotionSettings) error
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

// GetNotificationSettings always reads the stored row so a save is visible
// to the next transition. A missing row yields the defaults.
func (s *settingsService) GetNotificationSettings(ctx context.Context) (*models.NotificationSettings, error) {
	settings, err := s.repo.GetNotificationSettings(ctx)
	if errors.Is(err, repository.ErrSettingsNotFound) {
		return DefaultNotificationSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load notification settings: %w", err)
	}
	return settings, nil
}

func (s *settingsService) UpdateNotificationSettings(ctx context.Context, settings *models.NotificationSettings) error {
	if err := settings.Validate(); err != nil {
		return &ValidationError{Err: err}
	}
	return s.repo.SaveNotificationSettings(ctx, settings)
}

func (s *settingsService) GetPromotionSettings(ctx context.Context) (*models.PromotionSettings, error) {
	settings, err := s.repo.GetPromotionSettings(ctx)
	if errors.Is(err, repository.ErrSettingsNotFound) {
		return DefaultPromotionSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load promotion settings: %w", err)
	}
	return settings, nil
}

func (s *settingsService) UpdatePromotionSettings(ctx context.Context, settings *models.PromotionSettings) error {
	if err := settings.Validate(); err != nil {
		return &ValidationError{Err: err}
	}
	return s.repo.SavePromotionSettings(ctx, settings)
}
