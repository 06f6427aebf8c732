package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cafe-inventory/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cache keys for the two picker lists
const (
	keyCategories = "ref:categories"
	keyItemRefs   = "ref:items"
)

// CacheStats cache hit/miss counters
type CacheStats struct {
	Hits          int64
	Misses        int64
	TotalRequests int64
	TotalKeys     int
}

type l1Entry struct {
	data      []byte
	expiresAt time.Time
}

// ReferenceCache is a two-level (local map + Redis) cache for the category
// and item picker lists backing the two form routes. Only reference data
// lives here: derived stock is always recomputed from stock_logs and must
// never be cached.
type ReferenceCache struct {
	// L1: local memory, fastest
	l1Cache map[string]l1Entry
	l1Mutex sync.RWMutex

	// L2: Redis, shared between instances. Optional; a nil client keeps
	// the cache purely local.
	redisClient *redis.Client

	ttl    time.Duration
	logger *zap.Logger

	statsMutex sync.RWMutex
	hits       int64
	misses     int64
}

// NewReferenceCache creates the cache and starts the periodic L1 sweep
func NewReferenceCache(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *ReferenceCache {
	rc := &ReferenceCache{
		l1Cache:     make(map[string]l1Entry),
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}

	go rc.sweepL1()

	return rc
}

// GetCategories returns the cached category list, if present
func (rc *ReferenceCache) GetCategories(ctx context.Context) ([]*models.Category, bool) {
	data, ok := rc.get(ctx, keyCategories)
	if !ok {
		return nil, false
	}

	var categories []*models.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		rc.logger.Warn("Discarding undecodable cached categories", zap.Error(err))
		return nil, false
	}

	return categories, true
}

// SetCategories stores the category list in both levels
func (rc *ReferenceCache) SetCategories(ctx context.Context, categories []*models.Category) {
	rc.set(ctx, keyCategories, categories)
}

// GetItemRefs returns the cached item picker list, if present
func (rc *ReferenceCache) GetItemRefs(ctx context.Context) ([]*models.ItemRef, bool) {
	data, ok := rc.get(ctx, keyItemRefs)
	if !ok {
		return nil, false
	}

	var refs []*models.ItemRef
	if err := json.Unmarshal(data, &refs); err != nil {
		rc.logger.Warn("Discarding undecodable cached item refs", zap.Error(err))
		return nil, false
	}

	return refs, true
}

// SetItemRefs stores the item picker list in both levels
func (rc *ReferenceCache) SetItemRefs(ctx context.Context, refs []*models.ItemRef) {
	rc.set(ctx, keyItemRefs, refs)
}

// InvalidateItemRefs drops the item picker list from both levels. Called
// after every item creation so the movement form sees the new item.
func (rc *ReferenceCache) InvalidateItemRefs(ctx context.Context) {
	rc.l1Mutex.Lock()
	delete(rc.l1Cache, keyItemRefs)
	rc.l1Mutex.Unlock()

	if rc.redisClient != nil {
		if err := rc.redisClient.Del(ctx, keyItemRefs).Err(); err != nil {
			rc.logger.Warn("Failed to invalidate item refs in Redis", zap.Error(err))
		}
	}
}

// GetStats returns the cache counters
func (rc *ReferenceCache) GetStats() CacheStats {
	rc.statsMutex.RLock()
	hits, misses := rc.hits, rc.misses
	rc.statsMutex.RUnlock()

	rc.l1Mutex.RLock()
	totalKeys := len(rc.l1Cache)
	rc.l1Mutex.RUnlock()

	return CacheStats{
		Hits:          hits,
		Misses:        misses,
		TotalRequests: hits + misses,
		TotalKeys:     totalKeys,
	}
}

func (rc *ReferenceCache) get(ctx context.Context, key string) ([]byte, bool) {
	// 1. L1: local memory
	rc.l1Mutex.RLock()
	entry, ok := rc.l1Cache[key]
	rc.l1Mutex.RUnlock()

	if ok && time.Now().Before(entry.expiresAt) {
		rc.recordHit()
		return entry.data, true
	}

	// 2. L2: Redis; promote to L1 on hit
	if rc.redisClient != nil {
		data, err := rc.redisClient.Get(ctx, key).Bytes()
		if err == nil {
			rc.setToL1(key, data)
			rc.recordHit()
			return data, true
		}
	}

	rc.recordMiss()
	return nil, false
}

func (rc *ReferenceCache) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		rc.logger.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}

	rc.setToL1(key, data)

	if rc.redisClient != nil {
		if err := rc.redisClient.Set(ctx, key, data, rc.ttl).Err(); err != nil {
			rc.logger.Warn("Failed to store cache entry in Redis", zap.String("key", key), zap.Error(err))
		}
	}
}

func (rc *ReferenceCache) setToL1(key string, data []byte) {
	rc.l1Mutex.Lock()
	rc.l1Cache[key] = l1Entry{data: data, expiresAt: time.Now().Add(rc.ttl)}
	rc.l1Mutex.Unlock()
}

func (rc *ReferenceCache) recordHit() {
	rc.statsMutex.Lock()
	rc.hits++
	rc.statsMutex.Unlock()
}

func (rc *ReferenceCache) recordMiss() {
	rc.statsMutex.Lock()
	rc.misses++
	rc.statsMutex.Unlock()
}

// sweepL1 periodically drops expired L1 entries
func (rc *ReferenceCache) sweepL1() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rc.l1Mutex.Lock()
		for key, entry := range rc.l1Cache {
			if now.After(entry.expiresAt) {
				delete(rc.l1Cache, key)
			}
		}
		rc.l1Mutex.Unlock()
	}
}
