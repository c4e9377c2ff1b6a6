package repository

import (
	"context"

	"pizzeria/internal/models"

	"gorm.io/gorm"
)

type StatusHistoryRepository interface {
	Create(ctx context.Context, record *models.StatusChangeRecord) error
	GetByOrderID(ctx context.Context, orderID uint) ([]models.StatusChangeRecord, error)
}

type statusHistoryRepository struct {
	db *gorm.DB
}

func NewStatusHistoryRepository(db *gorm.DB) StatusHistoryRepository {
	return &statusHistoryRepository{db: db}
}

func (r *statusHistoryRepository) Create(ctx context.Context, record *models.StatusChangeRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *statusHistoryRepository) GetByOrderID(ctx context.Context, orderID uint) ([]models.StatusChangeRecord, error) {
	var records []models.StatusChangeRecord
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("changed_at ASC, id ASC").Find(&records).Error
	return records, err
}
