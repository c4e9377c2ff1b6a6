package repository

import (
	"context"
	"errors"

	"pizzeria/internal/models"

	"gorm.io/gorm"
)

var ErrSettingsNotFound = errors.New("settings not found")

// SettingsRepository stores the single notification and promotion
// configuration rows.
type SettingsRepository interface {
	GetNotificationSettings(ctx context.Context) (*models.NotificationSettings, error)
	SaveNotificationSettings(ctx context.Context, settings *models.NotificationSettings) error
	GetPromotionSettings(ctx context.Context) (*models.PromotionSettings, error)
	SavePromotionSettings(ctx context.Context, settings *models.PromotionSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetNotificationSettings(ctx context.Context) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := r.db.WithContext(ctx).Order("id ASC").First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// SaveNotificationSettings replaces the stored row, creating it on first
// save.
func (r *settingsRepository) SaveNotificationSettings(ctx context.Context, settings *models.NotificationSettings) error {
	existing, err := r.GetNotificationSettings(ctx)
	switch {
	case err == nil:
		settings.ID = existing.ID
	case errors.Is(err, ErrSettingsNotFound):
		settings.ID = 0
	default:
		return err
	}
	return r.db.WithContext(ctx).Save(settings).Error
}

func (r *settingsRepository) GetPromotionSettings(ctx context.Context) (*models.PromotionSettings, error) {
	var settings models.PromotionSettings
	err := r.db.WithContext(ctx).Order("id ASC").First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) SavePromotionSettings(ctx context.Context, settings *models.PromotionSettings) error {
	existing, err := r.GetPromotionSettings(ctx)
	switch {
	case err == nil:
		settings.ID = existing.ID
	case errors.Is(err, ErrSettingsNotFound):
		settings.ID = 0
	default:
		return err
	}
	return r.db.WithContext(ctx).Save(settings).Error
}
