package routes

import (
	"cafe-inventory/internal/handlers"
	"cafe-inventory/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every route of the application
func SetupRoutes(router *gin.Engine, inventoryHandler *handlers.InventoryHandler, monitoringHandler *handlers.MonitoringHandler, healthChecker *middleware.HealthChecker) {
	// Inventory surface: form-facing routes kept at the root, matching the
	// paths the pages submit to
	router.GET("/items/new", inventoryHandler.NewItemForm)
	router.POST("/items/new", inventoryHandler.CreateItem)
	router.GET("/items", inventoryHandler.ListItems)
	router.GET("/stock", inventoryHandler.MovementForm)
	router.POST("/stock", inventoryHandler.RecordMovement)
	router.GET("/stock/list", inventoryHandler.ListMovements)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		items := v1.Group("/items")
		{
			items.GET("/low-stock", inventoryHandler.ListLowStock)
		}

		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/metrics", monitoringHandler.GetMetrics)
			monitoring.GET("/metrics/summary", monitoringHandler.GetMetricsSummary)
			monitoring.GET("/ws", monitoringHandler.WebSocketMetrics)
		}
	}

	// Health check at the root
	router.GET("/health", healthChecker.HealthCheck)

	// API info landing page
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Café Inventory Service",
			"version": "1.0.0",
			"status":  "running",
			"endpoints": gin.H{
				"health": "/health",
				"items": gin.H{
					"list":     "GET /items",
					"new_form": "GET /items/new",
					"create":   "POST /items/new",
				},
				"stock": gin.H{
					"movement_form":   "GET /stock",
					"record_movement": "POST /stock",
					"history":         "GET /stock/list",
				},
				"low_stock": "GET /api/v1/items/low-stock",
			},
		})
	})
}
