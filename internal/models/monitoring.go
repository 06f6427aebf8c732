package models

import "time"

// MonitoringResponse full monitoring payload
type MonitoringResponse struct {
	Requests    RequestMetrics     `json:"requests"`
	Performance PerformanceMetrics `json:"performance"`
	Cache       CacheMetrics       `json:"cache"`
	Database    DatabaseMetrics    `json:"database"`
	System      SystemMetrics      `json:"system"`
	Redis       RedisMetrics       `json:"redis"`
	Timestamp   string             `json:"timestamp"`
	Version     string             `json:"version"`
}

// RequestMetrics aggregated request metrics
type RequestMetrics struct {
	Total             int                        `json:"total"`
	ByEndpoint        map[string]EndpointMetrics `json:"by_endpoint"`
	SlowRequests      []SlowRequest              `json:"slow_requests"`
	Errors            []RequestError             `json:"errors"`
	TotalRequests     int                        `json:"total_requests"`
	SlowRequestsCount int                        `json:"slow_requests_count"`
	ErrorsCount       int                        `json:"errors_count"`
	TopEndpoints      []TopEndpoint              `json:"top_endpoints"`
}

// EndpointMetrics per-endpoint counters
type EndpointMetrics struct {
	Count     int     `json:"count"`
	AvgTime   float64 `json:"avg_time"`
	TotalTime int64   `json:"total_time"`
}

// SlowRequest a request that exceeded the slow threshold
type SlowRequest struct {
	Endpoint  string    `json:"endpoint"`
	Duration  int64     `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

// RequestError a request that ended in an error status
type RequestError struct {
	Endpoint   string    `json:"endpoint"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// TopEndpoint most-hit endpoint summary
type TopEndpoint struct {
	Endpoint  string `json:"endpoint"`
	Count     int    `json:"count"`
	AvgTimeMs string `json:"avg_time_ms"`
}

// PerformanceMetrics response-time metrics
type PerformanceMetrics struct {
	AvgResponseTime   float64 `json:"avg_response_time"`
	MaxResponseTime   int64   `json:"max_response_time"`
	MinResponseTime   int64   `json:"min_response_time"`
	AvgResponseTimeMs string  `json:"avg_response_time_ms"`
	MaxResponseTimeMs string  `json:"max_response_time_ms"`
	MinResponseTimeMs string  `json:"min_response_time_ms"`
}

// CacheMetrics reference-cache metrics
type CacheMetrics struct {
	TotalKeys         int     `json:"total_keys"`
	HitRate           float64 `json:"hit_rate"`
	HitRatePercentage string  `json:"hit_rate_percentage"`
	TotalHits         int64   `json:"total_hits"`
	TotalMisses       int64   `json:"total_misses"`
	TotalRequests     int64   `json:"total_requests"`
	Status            string  `json:"status"`
}

// DatabaseMetrics connection-pool metrics
type DatabaseMetrics struct {
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	MaxOpenConnections int    `json:"max_open_connections"`
	Status             string `json:"status"`
}

// SystemMetrics process runtime metrics
type SystemMetrics struct {
	MemoryUsage string  `json:"memory_usage"`
	Uptime      float64 `json:"uptime"`
	UptimeHours string  `json:"uptime_hours"`
	GoVersion   string  `json:"go_version"`
	Platform    string  `json:"platform"`
	Environment string  `json:"environment"`
}

// RedisMetrics Redis server metrics
type RedisMetrics struct {
	Connected bool   `json:"connected"`
	Keys      int    `json:"keys"`
	Memory    string `json:"memory"`
	MemoryMB  string `json:"memory_mb"`
	Status    string `json:"status"`
}

// RequestData one observed request, fed into the monitoring service by the
// recording middleware
type RequestData struct {
	Endpoint   string
	Method     string
	Duration   time.Duration
	StatusCode int
	Timestamp  time.Time
}
