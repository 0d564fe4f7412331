package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores per-seller aggregates until they expire.
type Cache interface {
	Get(ctx context.Context, userID string) (Stats, bool)
	Set(ctx context.Context, userID string, stats Stats)
}

type cacheEntry struct {
	stats    Stats
	storedAt time.Time
}

// MemoryCache is a process-local Cache with an injectable clock.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewMemoryCache constructs a MemoryCache. A nil clock means time.Now.
func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

func (c *MemoryCache) Get(_ context.Context, userID string) (Stats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[userID]
	if !ok {
		return Stats{}, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, userID)
		return Stats{}, false
	}
	return cloneStats(entry.stats), true
}

func (c *MemoryCache) Set(_ context.Context, userID string, stats Stats) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = cacheEntry{stats: cloneStats(stats), storedAt: c.now()}
}

// cloneStats detaches the TopProducts backing array so callers cannot
// mutate a cached entry.
func cloneStats(s Stats) Stats {
	s.TopProducts = slices.Clone(s.TopProducts)
	return s
}

const redisKeyPrefix = "dashboard:stats:"

// RedisCache shares aggregates across API instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache constructs a RedisCache.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, userID string) (Stats, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+userID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("dashboard cache read", slog.Any("error", err))
		}
		return Stats{}, false
	}
	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.logger.Warn("dashboard cache decode", slog.Any("error", err))
		return Stats{}, false
	}
	return stats, true
}

func (c *RedisCache) Set(ctx context.Context, userID string, stats Stats) {
	if c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		c.logger.Warn("dashboard cache encode", slog.Any("error", err))
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+userID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("dashboard cache write", slog.Any("error", err))
	}
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*RedisCache)(nil)
)
