package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"quantlearn/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ===============================
// CACHE INTERFACE
// ===============================

// Cache is a byte-oriented key/value store with TTLs. Values are opaque;
// callers marshal and unmarshal their own payloads (see GetJSON/SetJSON).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
	Increment(ctx context.Context, key string, delta int64) (int64, error)
	Health(ctx context.Context) error
	Close() error
}

// GetJSON reads a key and unmarshals it into dest. Returns false on miss or
// decode failure.
func GetJSON(ctx context.Context, c Cache, key string, dest interface{}) bool {
	data, found := c.Get(ctx, key)
	if !found {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON marshals value and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}

// NewCache builds a cache from configuration. Unknown providers are an error
// rather than a silent fallback.
func NewCache(cfg *config.CacheConfig, logger *zap.Logger) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(cfg.Provider) {
	case "redis":
		return NewRedisCache(cfg, logger)
	case "memory", "":
		logger.Info("Using in-memory cache")
		return NewMemoryCache(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

// ===============================
// MEMORY CACHE
// ===============================

type memoryCache struct {
	mu     sync.RWMutex
	items  map[string]*memoryItem
	logger *zap.Logger
	stopCh chan struct{}
}

type memoryItem struct {
	value     []byte
	counter   int64
	isCounter bool
	expiresAt time.Time
}

// NewMemoryCache creates an in-process cache with periodic expiry sweeps.
func NewMemoryCache(cfg *config.CacheConfig, logger *zap.Logger) Cache {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	c := &memoryCache{
		items:  make(map[string]*memoryItem),
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go c.sweep(interval)
	return c
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = &memoryItem{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if matchPattern(key, pattern) {
			delete(c.items, key)
		}
	}
	return nil
}

func (c *memoryCache) Increment(_ context.Context, key string, delta int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiresAt) {
		c.items[key] = &memoryItem{counter: delta, isCounter: true, expiresAt: time.Now().Add(24 * time.Hour)}
		return delta, nil
	}
	if !item.isCounter {
		return 0, fmt.Errorf("value at %q is not a counter", key)
	}
	item.counter += delta
	return item.counter, nil
}

func (c *memoryCache) Health(ctx context.Context) error {
	key := "__health_check__"
	if err := c.Set(ctx, key, []byte("ok"), time.Minute); err != nil {
		return err
	}
	if _, found := c.Get(ctx, key); !found {
		return fmt.Errorf("cache health check failed: unable to read back value")
	}
	return c.Delete(ctx, key)
}

func (c *memoryCache) Close() error {
	close(c.stopCh)
	return nil
}

func (c *memoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			expired := 0
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
					expired++
				}
			}
			remaining := len(c.items)
			c.mu.Unlock()
			if expired > 0 {
				c.logger.Debug("Cleaned up expired cache items",
					zap.Int("expired_count", expired),
					zap.Int("remaining_count", remaining),
				)
			}
		case <-c.stopCh:
			return
		}
	}
}

// matchPattern supports the prefix*, *suffix and exact forms used by our
// cache keys.
func matchPattern(str, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(str, strings.TrimSuffix(pattern, "*"))
	}
	if strings.HasPrefix(pattern, "*") {
		return strings.HasSuffix(str, strings.TrimPrefix(pattern, "*"))
	}
	return str == pattern
}

// ===============================
// REDIS CACHE
// ===============================

type redisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg *config.CacheConfig, logger *zap.Logger) (Cache, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required for the redis cache provider")
	}

	options, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis cache initialized",
		zap.String("addr", options.Addr),
		zap.Int("db", options.DB),
	)
	return &redisCache{client: client, logger: logger}, nil
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.logger.Error("Failed to get from Redis", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return val, true
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 1000 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCache) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	return r.client.IncrBy(ctx, key, delta).Result()
}

func (r *redisCache) Health(ctx context.Context) error {
	_, err := r.client.Ping(ctx).Result()
	return err
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
