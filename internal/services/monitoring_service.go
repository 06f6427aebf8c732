package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"cafe-inventory/internal/cache"
	"cafe-inventory/internal/config"
	"cafe-inventory/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type MonitoringService interface {
	GetMetrics(ctx context.Context) *models.MonitoringResponse
	RecordRequest(data models.RequestData)
	GetCacheStats() models.CacheMetrics
	GetDatabaseStats(ctx context.Context) models.DatabaseMetrics
	GetSystemStats() models.SystemMetrics
	GetRedisStats(ctx context.Context) models.RedisMetrics
}

type monitoringService struct {
	logger      *zap.Logger
	config      *config.Config
	redisClient *redis.Client
	dbPool      *sql.DB
	refCache    *cache.ReferenceCache

	// Request metrics
	requestsMutex sync.RWMutex
	requests      map[string]*models.EndpointMetrics
	slowRequests  []models.SlowRequest
	errors        []models.RequestError

	totalRequests int64

	startTime time.Time
}

func NewMonitoringService(
	logger *zap.Logger,
	config *config.Config,
	redisClient *redis.Client,
	dbPool *sql.DB,
	refCache *cache.ReferenceCache,
) MonitoringService {
	return &monitoringService{
		logger:      logger,
		config:      config,
		redisClient: redisClient,
		dbPool:      dbPool,
		refCache:    refCache,
		requests:    make(map[string]*models.EndpointMetrics),
		startTime:   time.Now(),
	}
}

func (s *monitoringService) RecordRequest(data models.RequestData) {
	s.requestsMutex.Lock()
	defer s.requestsMutex.Unlock()

	endpointKey := fmt.Sprintf("%s %s", data.Method, data.Endpoint)

	metrics, exists := s.requests[endpointKey]
	if !exists {
		metrics = &models.EndpointMetrics{}
		s.requests[endpointKey] = metrics
	}

	metrics.Count++
	durationMs := data.Duration.Milliseconds()
	metrics.TotalTime += durationMs
	metrics.AvgTime = float64(metrics.TotalTime) / float64(metrics.Count)

	s.totalRequests++

	// Requests over one second count as slow
	if durationMs > 1000 {
		s.slowRequests = append(s.slowRequests, models.SlowRequest{
			Endpoint:  endpointKey,
			Duration:  durationMs,
			Timestamp: data.Timestamp,
		})

		// Keep only the last 100 slow requests
		if len(s.slowRequests) > 100 {
			s.slowRequests = s.slowRequests[1:]
		}
	}

	if data.StatusCode >= 400 {
		s.errors = append(s.errors, models.RequestError{
			Endpoint:   endpointKey,
			StatusCode: data.StatusCode,
			Timestamp:  data.Timestamp,
		})

		// Keep only the last 100 errors
		if len(s.errors) > 100 {
			s.errors = s.errors[1:]
		}
	}
}

func (s *monitoringService) GetMetrics(ctx context.Context) *models.MonitoringResponse {
	s.requestsMutex.RLock()
	defer s.requestsMutex.RUnlock()

	return &models.MonitoringResponse{
		Requests:    s.calculateRequestMetrics(),
		Performance: s.calculatePerformanceMetrics(),
		Cache:       s.GetCacheStats(),
		Database:    s.GetDatabaseStats(ctx),
		System:      s.GetSystemStats(),
		Redis:       s.GetRedisStats(ctx),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Version:     "1.0",
	}
}

func (s *monitoringService) calculateRequestMetrics() models.RequestMetrics {
	var endpoints []struct {
		key     string
		metrics *models.EndpointMetrics
	}

	for key, metrics := range s.requests {
		endpoints = append(endpoints, struct {
			key     string
			metrics *models.EndpointMetrics
		}{key, metrics})
	}

	sort.Slice(endpoints, func(i, j int) bool {
		return endpoints[i].metrics.Count > endpoints[j].metrics.Count
	})

	var topEndpoints []models.TopEndpoint
	for i, endpoint := range endpoints {
		if i >= 10 {
			break
		}
		topEndpoints = append(topEndpoints, models.TopEndpoint{
			Endpoint:  endpoint.key,
			Count:     endpoint.metrics.Count,
			AvgTimeMs: fmt.Sprintf("%.2fms", endpoint.metrics.AvgTime),
		})
	}

	byEndpoint := make(map[string]models.EndpointMetrics)
	for key, metrics := range s.requests {
		byEndpoint[key] = *metrics
	}

	return models.RequestMetrics{
		Total:             len(s.requests),
		ByEndpoint:        byEndpoint,
		SlowRequests:      s.slowRequests,
		Errors:            s.errors,
		TotalRequests:     int(s.totalRequests),
		SlowRequestsCount: len(s.slowRequests),
		ErrorsCount:       len(s.errors),
		TopEndpoints:      topEndpoints,
	}
}

func (s *monitoringService) calculatePerformanceMetrics() models.PerformanceMetrics {
	var totalTime int64
	var maxTime int64
	var minTime int64 = math.MaxInt64
	var count int

	for _, metrics := range s.requests {
		totalTime += metrics.TotalTime
		if metrics.TotalTime > maxTime {
			maxTime = metrics.TotalTime
		}
		if metrics.TotalTime < minTime {
			minTime = metrics.TotalTime
		}
		count += metrics.Count
	}

	var avgTime float64
	if count > 0 {
		avgTime = float64(totalTime) / float64(count)
	}

	if minTime == math.MaxInt64 {
		minTime = 0
	}

	return models.PerformanceMetrics{
		AvgResponseTime:   avgTime,
		MaxResponseTime:   maxTime,
		MinResponseTime:   minTime,
		AvgResponseTimeMs: fmt.Sprintf("%.2fms", avgTime),
		MaxResponseTimeMs: fmt.Sprintf("%dms", maxTime),
		MinResponseTimeMs: fmt.Sprintf("%dms", minTime),
	}
}

func (s *monitoringService) GetCacheStats() models.CacheMetrics {
	if s.refCache == nil {
		return models.CacheMetrics{Status: "disabled"}
	}

	stats := s.refCache.GetStats()

	var hitRate float64
	if stats.TotalRequests > 0 {
		hitRate = float64(stats.Hits) / float64(stats.TotalRequests)
	}

	return models.CacheMetrics{
		TotalKeys:         stats.TotalKeys,
		HitRate:           hitRate,
		HitRatePercentage: fmt.Sprintf("%.2f%%", hitRate*100),
		TotalHits:         stats.Hits,
		TotalMisses:       stats.Misses,
		TotalRequests:     stats.TotalRequests,
		Status:            "online",
	}
}

func (s *monitoringService) GetDatabaseStats(ctx context.Context) models.DatabaseMetrics {
	stats := s.dbPool.Stats()

	return models.DatabaseMetrics{
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		MaxOpenConnections: stats.MaxOpenConnections,
		Status:             "online",
	}
}

func (s *monitoringService) GetSystemStats() models.SystemMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(s.startTime).Seconds()

	environment := "production"
	if s.config.Server.GinMode == "debug" {
		environment = "development"
	}

	return models.SystemMetrics{
		MemoryUsage: fmt.Sprintf("%.2f", float64(m.Alloc)/1024/1024),
		Uptime:      uptime,
		UptimeHours: fmt.Sprintf("%.2fh", uptime/3600),
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS,
		Environment: environment,
	}
}

func (s *monitoringService) GetRedisStats(ctx context.Context) models.RedisMetrics {
	if s.redisClient == nil {
		return models.RedisMetrics{Status: "disabled"}
	}

	_, err := s.redisClient.Ping(ctx).Result()
	connected := err == nil

	var keys int
	var memory string
	var memoryMB string

	if connected {
		if keysResult, err := s.redisClient.DBSize(ctx).Result(); err == nil {
			keys = int(keysResult)
		}

		if info, err := s.redisClient.Info(ctx, "memory").Result(); err == nil {
			for _, line := range strings.Split(info, "\n") {
				if strings.HasPrefix(line, "used_memory:") {
					parts := strings.Split(line, ":")
					if len(parts) == 2 {
						memory = strings.TrimSpace(parts[1])
						if memBytes, err := strconv.ParseInt(memory, 10, 64); err == nil {
							memoryMB = fmt.Sprintf("%.2f MB", float64(memBytes)/1024/1024)
						}
					}
					break
				}
			}
		}
	}

	status := "offline"
	if connected {
		status = "online"
	}

	return models.RedisMetrics{
		Connected: connected,
		Keys:      keys,
		Memory:    memory,
		MemoryMB:  memoryMB,
		Status:    status,
	}
}
