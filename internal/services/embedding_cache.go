package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// EmbeddingCache is a two-tier cache for embedding vectors: L1 in memory,
// optional L2 in Redis. L1 is lost on restart; L2 is shared between
// instances.
type EmbeddingCache struct {
	l1         sync.Map // key → *cacheEntry
	rdb        *redis.Client
	ttl        time.Duration
	maxEntries int
	size       atomic.Int64

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	vector    []float32
	expiresAt time.Time
}

// NewEmbeddingCache builds the cache. redisURL may be empty to disable L2;
// an unreachable Redis also disables L2 with a warning.
func NewEmbeddingCache(ctx context.Context, redisURL string, ttl time.Duration, maxEntries int) *EmbeddingCache {
	c := &EmbeddingCache{ttl: ttl, maxEntries: maxEntries}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			slog.Warn("⚠️ Embedding cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				slog.Warn("⚠️ Embedding cache: redis unreachable, L2 disabled", slog.Any("error", err))
				_ = rdb.Close()
			} else {
				c.rdb = rdb
				slog.Info("✅ Embedding cache: L2 redis connected", slog.String("addr", opts.Addr))
			}
		}
	}

	slog.Info("✅ Embedding cache initialized",
		slog.Duration("ttl", ttl),
		slog.Bool("redis", c.rdb != nil),
		slog.Int("max_entries", maxEntries),
	)
	return c
}

// NewEmbeddingCacheWithClient uses an existing Redis client as L2.
func NewEmbeddingCacheWithClient(rdb *redis.Client, ttl time.Duration, maxEntries int) *EmbeddingCache {
	return &EmbeddingCache{rdb: rdb, ttl: ttl, maxEntries: maxEntries}
}

// EmbeddingCacheKey builds a deterministic key from the model and text.
func EmbeddingCacheKey(model, text string) string {
	hash := sha256.Sum256([]byte(model + "|" + text))
	return fmt.Sprintf("emb:%x", hash[:16])
}

// Get tries L1, then L2. An L2 hit populates L1.
func (c *EmbeddingCache) Get(ctx context.Context, key string) ([]float32, bool) {
	if val, ok := c.l1.Load(key); ok {
		entry := val.(*cacheEntry)
		if time.Now().Before(entry.expiresAt) {
			c.hits.Add(1)
			return entry.vector, true
		}
		c.deleteL1(key)
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var vec []float32
			if json.Unmarshal(data, &vec) == nil {
				c.hits.Add(1)
				c.storeL1(key, vec)
				return vec, true
			}
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Set stores the vector in both tiers.
func (c *EmbeddingCache) Set(ctx context.Context, key string, vec []float32) {
	c.storeL1(key, vec)

	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Debug("Embedding cache: L2 set failed", slog.Any("error", err))
	}
}

// Stats returns hit and miss counters.
func (c *EmbeddingCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *EmbeddingCache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

func (c *EmbeddingCache) storeL1(key string, vec []float32) {
	if _, loaded := c.l1.Swap(key, &cacheEntry{vector: vec, expiresAt: time.Now().Add(c.ttl)}); !loaded {
		c.size.Add(1)
	}
	c.evictIfNeeded()
}

func (c *EmbeddingCache) deleteL1(key string) {
	if _, loaded := c.l1.LoadAndDelete(key); loaded {
		c.size.Add(-1)
	}
}

// evictIfNeeded drops expired entries, then the entries closest to expiry,
// until L1 is within maxEntries.
func (c *EmbeddingCache) evictIfNeeded() {
	if c.maxEntries <= 0 || c.size.Load() <= int64(c.maxEntries) {
		return
	}

	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if now.After(val.(*cacheEntry).expiresAt) {
			c.deleteL1(key.(string))
		}
		return true
	})

	for c.size.Load() > int64(c.maxEntries) {
		var oldestKey string
		oldestAt := now.Add(c.ttl + time.Hour)
		c.l1.Range(func(key, val any) bool {
			if e := val.(*cacheEntry); e.expiresAt.Before(oldestAt) {
				oldestKey = key.(string)
				oldestAt = e.expiresAt
			}
			return true
		})
		if oldestKey == "" {
			return
		}
		c.deleteL1(oldestKey)
	}
}

type cachedEmbeddingService struct {
	inner EmbeddingService
	cache *EmbeddingCache
	model string
}

// NewCachedEmbeddingService wraps inner so repeated chunks are embedded once.
func NewCachedEmbeddingService(inner EmbeddingService, cache *EmbeddingCache, model string) EmbeddingService {
	return &cachedEmbeddingService{inner: inner, cache: cache, model: model}
}

// GenerateEmbedding implements EmbeddingService.
func (s *cachedEmbeddingService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := EmbeddingCacheKey(s.model, text)
	if vec, ok := s.cache.Get(ctx, key); ok {
		return vec, nil
	}

	vec, err := s.inner.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, vec)
	return vec, nil
}
