package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"cafe-inventory/internal/cache"
	"cafe-inventory/internal/config"
	"cafe-inventory/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sql.Open only validates arguments, it never dials, so pool stats work
// without a running database.
func newTestMonitoring(t *testing.T, refCache *cache.ReferenceCache) MonitoringService {
	t.Helper()

	db, err := sql.Open("postgres", "dbname=cafe_inventory sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: "debug"},
	}

	return NewMonitoringService(zap.NewNop(), cfg, nil, db, refCache)
}

func TestRecordRequestAggregatesPerEndpoint(t *testing.T) {
	svc := newTestMonitoring(t, nil)

	svc.RecordRequest(models.RequestData{
		Endpoint:   "/items",
		Method:     "GET",
		Duration:   100 * time.Millisecond,
		StatusCode: 200,
		Timestamp:  time.Now(),
	})
	svc.RecordRequest(models.RequestData{
		Endpoint:   "/items",
		Method:     "GET",
		Duration:   300 * time.Millisecond,
		StatusCode: 200,
		Timestamp:  time.Now(),
	})

	metrics := svc.GetMetrics(context.Background())

	endpoint, ok := metrics.Requests.ByEndpoint["GET /items"]
	require.True(t, ok)
	assert.Equal(t, 2, endpoint.Count)
	assert.Equal(t, int64(400), endpoint.TotalTime)
	assert.Equal(t, float64(200), endpoint.AvgTime)
	assert.Equal(t, 2, metrics.Requests.TotalRequests)
}

func TestRecordRequestTracksErrors(t *testing.T) {
	svc := newTestMonitoring(t, nil)

	svc.RecordRequest(models.RequestData{
		Endpoint:   "/stock",
		Method:     "POST",
		Duration:   50 * time.Millisecond,
		StatusCode: 400,
		Timestamp:  time.Now(),
	})

	metrics := svc.GetMetrics(context.Background())

	assert.Equal(t, 1, metrics.Requests.ErrorsCount)
	require.Len(t, metrics.Requests.Errors, 1)
	assert.Equal(t, "POST /stock", metrics.Requests.Errors[0].Endpoint)
	assert.Equal(t, 400, metrics.Requests.Errors[0].StatusCode)
}

func TestRecordRequestTracksSlowRequests(t *testing.T) {
	svc := newTestMonitoring(t, nil)

	svc.RecordRequest(models.RequestData{
		Endpoint:   "/stock/list",
		Method:     "GET",
		Duration:   1500 * time.Millisecond,
		StatusCode: 200,
		Timestamp:  time.Now(),
	})
	svc.RecordRequest(models.RequestData{
		Endpoint:   "/stock/list",
		Method:     "GET",
		Duration:   200 * time.Millisecond,
		StatusCode: 200,
		Timestamp:  time.Now(),
	})

	metrics := svc.GetMetrics(context.Background())

	assert.Equal(t, 1, metrics.Requests.SlowRequestsCount)
	require.Len(t, metrics.Requests.SlowRequests, 1)
	assert.Equal(t, int64(1500), metrics.Requests.SlowRequests[0].Duration)
}

func TestTopEndpointsSortedByCount(t *testing.T) {
	svc := newTestMonitoring(t, nil)

	for i := 0; i < 3; i++ {
		svc.RecordRequest(models.RequestData{
			Endpoint: "/items", Method: "GET", Duration: 10 * time.Millisecond, StatusCode: 200, Timestamp: time.Now(),
		})
	}
	svc.RecordRequest(models.RequestData{
		Endpoint: "/stock", Method: "GET", Duration: 10 * time.Millisecond, StatusCode: 200, Timestamp: time.Now(),
	})

	metrics := svc.GetMetrics(context.Background())

	require.NotEmpty(t, metrics.Requests.TopEndpoints)
	assert.Equal(t, "GET /items", metrics.Requests.TopEndpoints[0].Endpoint)
	assert.Equal(t, 3, metrics.Requests.TopEndpoints[0].Count)
}

func TestOptionalBackendsReportDisabled(t *testing.T) {
	svc := newTestMonitoring(t, nil)

	metrics := svc.GetMetrics(context.Background())

	assert.Equal(t, "disabled", metrics.Cache.Status)
	assert.Equal(t, "disabled", metrics.Redis.Status)
	assert.Equal(t, "online", metrics.Database.Status)
	assert.Equal(t, "development", metrics.System.Environment)
}

func TestCacheStatsHitRate(t *testing.T) {
	refCache := cache.NewReferenceCache(nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	refCache.GetCategories(ctx) // miss
	refCache.SetCategories(ctx, []*models.Category{{ID: 1, Name: "Ingredients"}})
	refCache.GetCategories(ctx) // hit

	svc := newTestMonitoring(t, refCache)
	stats := svc.GetCacheStats()

	assert.Equal(t, "online", stats.Status)
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalMisses)
	assert.Equal(t, 0.5, stats.HitRate)
	assert.Equal(t, "50.00%", stats.HitRatePercentage)
}
