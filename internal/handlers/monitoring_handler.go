package handlers

import (
	"context"
	"net/http"
	"time"

	"cafe-inventory/internal/models"
	"cafe-inventory/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type MonitoringHandler struct {
	monitoringService services.MonitoringService
	logger            *zap.Logger
}

func NewMonitoringHandler(monitoringService services.MonitoringService, logger *zap.Logger) *MonitoringHandler {
	return &MonitoringHandler{
		monitoringService: monitoringService,
		logger:            logger,
	}
}

// GetMetrics returns the full metrics payload
func (h *MonitoringHandler) GetMetrics(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "get_metrics"))

	metrics := h.monitoringService.GetMetrics(c.Request.Context())

	logger.Info("Metrics collected",
		zap.Int("total_requests", metrics.Requests.TotalRequests),
		zap.Int("total_endpoints", metrics.Requests.Total))

	c.JSON(http.StatusOK, metrics)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketMetrics streams the metrics payload over a websocket every ten
// seconds until the client disconnects
func (h *MonitoringHandler) WebSocketMetrics(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "websocket_metrics"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Error upgrading to WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	logger.Info("WebSocket connection established")

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics := h.monitoringService.GetMetrics(context.Background())

			if err := conn.WriteJSON(metrics); err != nil {
				logger.Error("Error writing metrics to WebSocket", zap.Error(err))
				return
			}

		case <-c.Request.Context().Done():
			logger.Info("WebSocket connection closed by context")
			return
		}
	}
}

// RecordRequestMiddleware feeds every observed request into the monitoring
// service
func (h *MonitoringHandler) RecordRequestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		if h.shouldSkipMonitoring(path) {
			return
		}

		h.monitoringService.RecordRequest(models.RequestData{
			Endpoint:   path,
			Method:     c.Request.Method,
			Duration:   time.Since(start),
			StatusCode: c.Writer.Status(),
			Timestamp:  time.Now(),
		})
	}
}

// shouldSkipMonitoring excludes the monitoring surface itself
func (h *MonitoringHandler) shouldSkipMonitoring(path string) bool {
	excludedPaths := []string{
		"/api/v1/monitoring/metrics",
		"/api/v1/monitoring/metrics/summary",
		"/api/v1/monitoring/ws",
		"/health",
		"/",
	}

	for _, excludedPath := range excludedPaths {
		if path == excludedPath {
			return true
		}
	}

	return false
}

// GetMetricsSummary returns a condensed metrics payload
func (h *MonitoringHandler) GetMetricsSummary(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "get_metrics_summary"))

	metrics := h.monitoringService.GetMetrics(c.Request.Context())

	summary := gin.H{
		"requests": gin.H{
			"total":         metrics.Requests.TotalRequests,
			"endpoints":     metrics.Requests.Total,
			"errors":        metrics.Requests.ErrorsCount,
			"slow_requests": metrics.Requests.SlowRequestsCount,
		},
		"performance": gin.H{
			"avg_response_time": metrics.Performance.AvgResponseTimeMs,
			"max_response_time": metrics.Performance.MaxResponseTimeMs,
			"min_response_time": metrics.Performance.MinResponseTimeMs,
		},
		"cache": gin.H{
			"hit_rate":   metrics.Cache.HitRatePercentage,
			"total_keys": metrics.Cache.TotalKeys,
			"status":     metrics.Cache.Status,
		},
		"database": gin.H{
			"open_connections": metrics.Database.OpenConnections,
			"in_use":           metrics.Database.InUse,
			"status":           metrics.Database.Status,
		},
		"system": gin.H{
			"memory_usage": metrics.System.MemoryUsage,
			"uptime":       metrics.System.UptimeHours,
			"platform":     metrics.System.Platform,
		},
		"redis": gin.H{
			"connected": metrics.Redis.Connected,
			"keys":      metrics.Redis.Keys,
			"memory":    metrics.Redis.MemoryMB,
			"status":    metrics.Redis.Status,
		},
		"timestamp": metrics.Timestamp,
	}

	logger.Info("Metrics summary generated",
		zap.Int("total_requests", metrics.Requests.TotalRequests))

	c.JSON(http.StatusOK, summary)
}
