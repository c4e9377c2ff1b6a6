package services

import (
	"context"
	"fmt"
	"log/slog"

	"pizzeria/internal/models"
	"pizzeria/internal/repository"
)

// HistoryCache is the read-through cache in front of the durable history.
type HistoryCache interface {
	InvalidateStatusHistory(ctx context.Context, orderID uint) error
	GetStatusHistory(ctx context.Context, orderID uint) ([]models.StatusChangeRecord, bool, error)
	StoreStatusHistory(ctx context.Context, orderID uint, records []models.StatusChangeRecord) error
}

// StatusHistory keeps the append-only transition log. The repository is the
// source of truth; the cache is optional and its errors are only logged.
type StatusHistory struct {
	repo   repository.StatusHistoryRepository
	cache  HistoryCache
	logger *slog.Logger
}

func NewStatusHistory(repo repository.StatusHistoryRepository, cache HistoryCache, logger *slog.Logger) *StatusHistory {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusHistory{repo: repo, cache: cache, logger: logger}
}

// Record appends to the durable log and drops the cached copy. Appending to
// the cache instead could duplicate the record when a read warms the cache
// in between.
func (h *StatusHistory) Record(ctx context.Context, record *models.StatusChangeRecord) error {
	if err := h.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to record status change: %w", err)
	}
	if h.cache != nil {
		if err := h.cache.InvalidateStatusHistory(ctx, record.OrderID); err != nil {
			h.logger.Warn("status history cache invalidation failed", "order_id", record.OrderID, "error", err)
		}
	}
	return nil
}

// Query returns the history of an order oldest first.
func (h *StatusHistory) Query(ctx context.Context, orderID uint) ([]models.StatusChangeRecord, error) {
	if h.cache != nil {
		records, found, err := h.cache.GetStatusHistory(ctx, orderID)
		if err != nil {
			h.logger.Warn("status history cache read failed", "order_id", orderID, "error", err)
		} else if found {
			return records, nil
		}
	}

	records, err := h.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	if h.cache != nil && len(records) > 0 {
		if err := h.cache.StoreStatusHistory(ctx, orderID, records); err != nil {
			h.logger.Warn("status history cache warm failed", "order_id", orderID, "error", err)
		}
	}
	return records, nil
}
