package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"cafe-inventory/internal/services"
)

// Scheduler runs the periodic low-stock sweep. The sweep only observes:
// the four inventory handlers never act on alert thresholds themselves.
type Scheduler struct {
	cron         *cron.Cron
	inventorySvc services.InventoryService
	cronSpec     string
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cronSpec string, inventorySvc services.InventoryService, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:         cron.New(),
		inventorySvc: inventorySvc,
		cronSpec:     cronSpec,
		logger:       logger,
	}
}

// Start schedules the low-stock sweep and starts the cron loop
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("low_stock_cron", s.cronSpec))

	_, err := s.cron.AddFunc(s.cronSpec, s.sweepLowStock)
	if err != nil {
		s.logger.Error("failed to schedule low-stock sweep", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sweepLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	items, err := s.inventorySvc.ListLowStock(ctx)
	if err != nil {
		s.logger.Error("low-stock sweep failed", zap.Error(err))
		return
	}

	if len(items) == 0 {
		s.logger.Info("low-stock sweep completed, no items below threshold")
		return
	}

	for _, item := range items {
		s.logger.Warn("item at or below alert threshold",
			zap.Int("item_id", item.ID),
			zap.String("name", item.Name),
			zap.String("unit", item.Unit),
			zap.Int("current_stock", item.CurrentStock),
			zap.Int("alert_threshold", item.AlertThreshold))
	}

	s.logger.Info("low-stock sweep completed", zap.Int("items_below_threshold", len(items)))
}
