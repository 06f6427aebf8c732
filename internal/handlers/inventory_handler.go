package handlers

import (
	"errors"
	"net/http"

	"cafe-inventory/internal/models"
	"cafe-inventory/internal/repository"
	"cafe-inventory/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// InventoryHandler handles the HTTP surface of the inventory: item
// registration and listing, stock movements and movement history
type InventoryHandler struct {
	inventoryService services.InventoryService
	validator        *validator.Validate
	logger           *zap.Logger
	defaultUserID    int
}

// NewInventoryHandler creates a new instance of the handler. defaultUserID
// is the acting user recorded on every movement; there is no session or
// authentication model.
func NewInventoryHandler(inventoryService services.InventoryService, defaultUserID int, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		validator:        validator.New(),
		logger:           logger,
		defaultUserID:    defaultUserID,
	}
}

// NewItemForm returns the categories for the item registration form
// (GET /items/new)
func (h *InventoryHandler) NewItemForm(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "new_item_form"))

	categories, err := h.inventoryService.ListCategories(c.Request.Context())
	if err != nil {
		logger.Error("Error listing categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error loading categories",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ Categories loaded",
		"data": gin.H{
			"categories": categories,
		},
	})
}

// CreateItem registers a new item from the submitted form and redirects to
// the item listing (POST /items/new)
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "create_item"))

	var req models.CreateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		// Covers non-integer category_id / alert_threshold form fields
		logger.Error("Error binding item form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ Invalid item form data",
			"error":   err.Error(),
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		logger.Error("Validation error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ Invalid item form data",
			"error":   err.Error(),
		})
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			logger.Error("Unknown category", zap.Int("category_id", req.CategoryID))
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "❌ Unknown category",
				"error":   err.Error(),
			})
			return
		}

		logger.Error("Error creating item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error registering item",
			"error":   err.Error(),
		})
		return
	}

	logger.Info("Item registered",
		zap.Int("item_id", item.ID),
		zap.String("name", item.Name))

	c.Redirect(http.StatusSeeOther, "/items")
}

// ListItems returns every item with its category name and current stock
// (GET /items)
func (h *InventoryHandler) ListItems(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "list_items"))

	listing, err := h.inventoryService.ListItems(c.Request.Context())
	if err != nil {
		logger.Error("Error listing items", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error loading items",
			"error":   err.Error(),
		})
		return
	}

	logger.Info("Items listed", zap.Int("total_items", listing.TotalItems))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ Items loaded",
		"data": gin.H{
			"items":       listing.Items,
			"stock_by_id": listing.StockByID,
			"total_items": listing.TotalItems,
		},
	})
}

// MovementForm returns the items for the stock movement form (GET /stock)
func (h *InventoryHandler) MovementForm(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "movement_form"))

	items, err := h.inventoryService.ListItemRefs(c.Request.Context())
	if err != nil {
		logger.Error("Error listing items for form", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error loading items",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ Items loaded",
		"data": gin.H{
			"items": items,
		},
	})
}

// RecordMovement appends one stock movement from the submitted form and
// redirects back to the movement form (POST /stock)
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "record_movement"))

	var req models.RecordMovementRequest
	if err := c.ShouldBind(&req); err != nil {
		// A non-integer quantity must never reach the log
		logger.Error("Error binding movement form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ Invalid movement form data",
			"error":   err.Error(),
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		logger.Error("Validation error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ Invalid movement form data",
			"error":   err.Error(),
		})
		return
	}

	// Acting user comes from configuration, never from the form
	req.UserID = h.defaultUserID

	log, err := h.inventoryService.RecordMovement(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			logger.Error("Unknown item or user",
				zap.Int("item_id", req.ItemID),
				zap.Int("user_id", req.UserID))
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "❌ Unknown item or user",
				"error":   err.Error(),
			})
			return
		}

		logger.Error("Error recording movement", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error recording movement",
			"error":   err.Error(),
		})
		return
	}

	logger.Info("Movement recorded",
		zap.Int("log_id", log.ID),
		zap.Int("item_id", log.ItemID),
		zap.Int("change", log.Change))

	c.Redirect(http.StatusSeeOther, "/stock")
}

// ListMovements returns the movement history joined with item and user
// names, newest first (GET /stock/list)
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "list_movements"))

	listing, err := h.inventoryService.ListMovements(c.Request.Context())
	if err != nil {
		logger.Error("Error listing movements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error loading movements",
			"error":   err.Error(),
		})
		return
	}

	logger.Info("Movements listed", zap.Int("total_movements", listing.TotalMovements))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ Movements loaded",
		"data": gin.H{
			"movements":       listing.Movements,
			"total_movements": listing.TotalMovements,
		},
	})
}

// ListLowStock returns items at or below their alert threshold
// (GET /api/v1/items/low-stock)
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "list_low_stock"))

	items, err := h.inventoryService.ListLowStock(c.Request.Context())
	if err != nil {
		logger.Error("Error listing low stock", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "❌ Error loading low stock items",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ Low stock items loaded",
		"data": gin.H{
			"items": items,
			"total": len(items),
		},
	})
}
