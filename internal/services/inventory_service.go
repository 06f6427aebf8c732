package services

import (
	"context"
	"fmt"
	"time"

	"cafe-inventory/internal/cache"
	"cafe-inventory/internal/models"
	"cafe-inventory/internal/repository"

	"go.uber.org/zap"
)

// InventoryService defines the operations behind the inventory routes
type InventoryService interface {
	// Item registration and listing
	CreateItem(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error)
	ListItems(ctx context.Context) (*models.ItemListResponse, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)

	// Stock movements
	RecordMovement(ctx context.Context, req *models.RecordMovementRequest) (*models.StockLog, error)
	ListMovements(ctx context.Context) (*models.MovementListResponse, error)
	ListItemRefs(ctx context.Context) ([]*models.ItemRef, error)

	// Derived stock
	GetCurrentStock(ctx context.Context, itemID int) (int, error)
	ListLowStock(ctx context.Context) ([]*models.LowStockItem, error)
}

// inventoryService implements InventoryService
type inventoryService struct {
	items    repository.ItemRepository
	logs     repository.StockLogRepository
	refCache *cache.ReferenceCache
	logger   *zap.Logger
	now      func() time.Time
}

// NewInventoryService creates a new instance of the service. refCache may
// be nil, in which case every picker read goes straight to the store.
func NewInventoryService(items repository.ItemRepository, logs repository.StockLogRepository, refCache *cache.ReferenceCache, logger *zap.Logger) InventoryService {
	return &inventoryService{
		items:    items,
		logs:     logs,
		refCache: refCache,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateItem registers a new item and invalidates the item picker cache
func (s *inventoryService) CreateItem(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error) {
	logger := s.logger.With(
		zap.String("operation", "create_item"),
		zap.String("name", req.Name),
		zap.Int("category_id", req.CategoryID),
	)

	item := &models.Item{
		Name:           req.Name,
		Unit:           req.Unit,
		CategoryID:     req.CategoryID,
		AlertThreshold: req.AlertThreshold,
		Note:           req.Note,
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		logger.Error("Failed to create item", zap.Error(err))
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if s.refCache != nil {
		s.refCache.InvalidateItemRefs(ctx)
	}

	logger.Info("Item registered", zap.Int("item_id", item.ID))

	return item, nil
}

// ListItems returns every item with its category name and current stock,
// ordered by ascending id, plus the item id to stock level map
func (s *inventoryService) ListItems(ctx context.Context) (*models.ItemListResponse, error) {
	items, err := s.items.ListItemsWithStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	stockByID := make(map[int]int, len(items))
	for _, item := range items {
		stockByID[item.ID] = item.CurrentStock
	}

	return &models.ItemListResponse{
		Items:      items,
		StockByID:  stockByID,
		TotalItems: len(items),
	}, nil
}

// ListCategories returns the category picker list, cached when possible
func (s *inventoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	if s.refCache != nil {
		if categories, ok := s.refCache.GetCategories(ctx); ok {
			return categories, nil
		}
	}

	categories, err := s.items.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if s.refCache != nil {
		s.refCache.SetCategories(ctx, categories)
	}

	return categories, nil
}

// ListItemRefs returns the item picker list, cached when possible
func (s *inventoryService) ListItemRefs(ctx context.Context) ([]*models.ItemRef, error) {
	if s.refCache != nil {
		if refs, ok := s.refCache.GetItemRefs(ctx); ok {
			return refs, nil
		}
	}

	refs, err := s.items.ListItemRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list item refs: %w", err)
	}

	if s.refCache != nil {
		s.refCache.SetItemRefs(ctx, refs)
	}

	return refs, nil
}

// RecordMovement appends one movement to the log. The change sign comes
// from the action: "in" adds the quantity, any other value subtracts it —
// the form has always treated unrecognized actions as outflows.
func (s *inventoryService) RecordMovement(ctx context.Context, req *models.RecordMovementRequest) (*models.StockLog, error) {
	logger := s.logger.With(
		zap.String("operation", "record_movement"),
		zap.Int("item_id", req.ItemID),
		zap.Int("quantity", req.Quantity),
		zap.String("action", req.Action),
		zap.Int("user_id", req.UserID),
	)

	change := req.Quantity
	if req.Action != models.ActionIn {
		change = -req.Quantity
	}

	log := &models.StockLog{
		ItemID:    req.ItemID,
		UserID:    req.UserID,
		Change:    change,
		Timestamp: s.now().Format(models.TimestampLayout),
		Memo:      req.Memo,
	}

	if err := s.logs.CreateLog(ctx, log); err != nil {
		logger.Error("Failed to record movement", zap.Error(err))
		return nil, fmt.Errorf("failed to record movement: %w", err)
	}

	logger.Info("Movement recorded",
		zap.Int("log_id", log.ID),
		zap.Int("change", change))

	return log, nil
}

// ListMovements returns every movement joined with item and user names,
// newest first
func (s *inventoryService) ListMovements(ctx context.Context) (*models.MovementListResponse, error) {
	logs, err := s.logs.ListLogsWithDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	return &models.MovementListResponse{
		Movements:      logs,
		TotalMovements: len(logs),
	}, nil
}

// GetCurrentStock returns the derived stock level of one item
func (s *inventoryService) GetCurrentStock(ctx context.Context, itemID int) (int, error) {
	return s.items.GetCurrentStock(ctx, itemID)
}

// ListLowStock returns items at or below their alert threshold
func (s *inventoryService) ListLowStock(ctx context.Context) ([]*models.LowStockItem, error) {
	return s.items.ListLowStock(ctx)
}
