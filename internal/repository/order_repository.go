package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizzeria/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrStatusConflict = errors.New("order status was changed by another writer")
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetActive(ctx context.Context) ([]models.Order, error)
	GetByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, expected, next models.OrderStatus) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uint, paymentStatus string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order together with its items.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").Preload("User").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order %d: %w", id, err)
	}
	return &order, nil
}

// GetActive returns every order that can still change status.
func (r *orderRepository) GetActive(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status NOT IN ?", []models.OrderStatus{models.OrderCompleted, models.OrderCancelled}).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("status = ?", status).Find(&orders).Error
	return orders, err
}

// UpdateStatus moves an order from expected to next in a single conditional
// write. ErrStatusConflict is returned when the stored status no longer
// matches expected.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, expected, next models.OrderStatus) (*models.Order, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(map[string]interface{}{"status": next, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update status of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check order %d: %w", id, err)
		}
		if count == 0 {
			return nil, ErrOrderNotFound
		}
		return nil, ErrStatusConflict
	}
	return r.GetByID(ctx, id)
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id uint, paymentStatus string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"payment_status": paymentStatus, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update payment status of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
