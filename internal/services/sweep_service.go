package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pizzeria/internal/models"
	"pizzeria/internal/repository"
	"pizzeria/pkg/metrics"
)

// AppliedTransition is one automatic change made by a sweep.
type AppliedTransition struct {
	OrderID       uint                `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	From          models.OrderStatus  `json:"from"`
	To            models.OrderStatus  `json:"to"`
	Notifications NotificationSummary `json:"notifications"`
}

type SweepService interface {
	RunAutomaticSweep(ctx context.Context, orders []models.Order) []AppliedTransition
	SweepActiveOrders(ctx context.Context) ([]AppliedTransition, error)
	GetAdminAlerts(ctx context.Context) ([]AdminAlert, error)
	Start(ctx context.Context, interval time.Duration)
}

type sweepService struct {
	orderRepo repository.OrderRepository
	changes   StatusChangeService
	prep      PrepTimeConfig
	metrics   *metrics.Metrics
	logger    *slog.Logger
	clock     func() time.Time
}

func NewSweepService(orderRepo repository.OrderRepository, changes StatusChangeService, prep PrepTimeConfig, m *metrics.Metrics, logger *slog.Logger) SweepService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sweepService{
		orderRepo: orderRepo,
		changes:   changes,
		prep:      prep,
		metrics:   m,
		logger:    logger,
		clock:     time.Now,
	}
}

// RunAutomaticSweep evaluates every order on its own. A failed write is
// logged and the sweep moves on to the next order.
func (s *sweepService) RunAutomaticSweep(ctx context.Context, orders []models.Order) []AppliedTransition {
	started := time.Now()
	defer func() { s.metrics.ObserveSweep(time.Since(started)) }()

	now := s.clock()
	applied := []AppliedTransition{}
	for i := range orders {
		if ctx.Err() != nil {
			break
		}
		o := &orders[i]
		next, ok := GetAutomaticTransition(o.Status, AutoTransitionInput{
			Items:         o.Items,
			PaymentStatus: o.PaymentStatus,
			CreatedAt:     o.CreatedAt,
		}, now, s.prep)
		if !ok {
			continue
		}

		_, summary, err := s.changes.ApplyTransition(ctx, o, next, true, nil)
		if err != nil {
			if errors.Is(err, repository.ErrStatusConflict) {
				s.logger.Info("order changed during sweep, skipped", "order_id", o.ID, "from", o.Status, "to", next)
			} else {
				s.logger.Error("automatic transition failed", "order_id", o.ID, "from", o.Status, "to", next, "error", err)
			}
			continue
		}
		applied = append(applied, AppliedTransition{
			OrderID:       o.ID,
			OrderNumber:   o.OrderNumber,
			From:          o.Status,
			To:            next,
			Notifications: summary,
		})
	}
	return applied
}

func (s *sweepService) SweepActiveOrders(ctx context.Context) ([]AppliedTransition, error) {
	orders, err := s.orderRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.RunAutomaticSweep(ctx, orders), nil
}

func (s *sweepService) GetAdminAlerts(ctx context.Context) ([]AdminAlert, error) {
	orders, err := s.orderRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return GetAdminAlerts(orders, s.clock(), s.prep), nil
}

// Start sweeps on every tick until ctx is cancelled. Ticks never overlap.
func (s *sweepService) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("automatic sweep started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("automatic sweep stopped")
			return
		case <-ticker.C:
			applied, err := s.SweepActiveOrders(ctx)
			if err != nil {
				s.logger.Error("sweep failed", "error", err)
				continue
			}
			if len(applied) > 0 {
				s.logger.Info("sweep applied transitions", "count", len(applied))
			}
		}
	}
}
