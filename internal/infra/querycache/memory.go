package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/pkg/metrics"
)

type envelope struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// MemoryOptions sizes the in-process cache.
type MemoryOptions struct {
	// LifeWindow is the longest any entry may live. Shorter per-entry TTLs are
	// enforced lazily on read.
	LifeWindow  time.Duration
	CleanWindow time.Duration
	MaxSizeMB   int
}

// MemoryCache keeps serialized query results in bigcache.
type MemoryCache struct {
	cache   *bigcache.BigCache
	metrics *metrics.Registry
	now     func() time.Time
}

// NewMemoryCache starts a bigcache instance whose CleanWindow goroutine evicts
// stale entries until Close is called.
func NewMemoryCache(opts MemoryOptions, reg *metrics.Registry) (*MemoryCache, error) {
	if opts.LifeWindow <= 0 {
		opts.LifeWindow = 5 * time.Minute
	}
	if opts.CleanWindow <= 0 {
		opts.CleanWindow = time.Minute
	}
	cfg := bigcache.DefaultConfig(opts.LifeWindow)
	cfg.CleanWindow = opts.CleanWindow
	cfg.HardMaxCacheSize = opts.MaxSizeMB
	cfg.Verbose = false
	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("init bigcache: %w", err)
	}
	return &MemoryCache{cache: cache, metrics: reg, now: time.Now}, nil
}

// Get implements catalog.Cache.
func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	data, err := c.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			c.metrics.ObserveCache("memory", false)
			return false, nil
		}
		return false, err
	}
	var entry envelope
	if err := json.Unmarshal(data, &entry); err != nil {
		return false, err
	}
	if hasExpired(entry.ExpiresAt, c.now()) {
		_ = c.cache.Delete(key)
		c.metrics.ObserveCache("memory", false)
		return false, nil
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return false, err
	}
	c.metrics.ObserveCache("memory", true)
	return true, nil
}

// Set caches value with an optional TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	data, err := json.Marshal(envelope{Value: payload, ExpiresAt: exp})
	if err != nil {
		return err
	}
	return c.cache.Set(key, data)
}

// Len reports how many entries bigcache currently holds, expired or not.
func (c *MemoryCache) Len() int {
	return c.cache.Len()
}

// Close stops the background sweeper.
func (c *MemoryCache) Close() error {
	return c.cache.Close()
}

func hasExpired(ts, now time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(now)
}

var _ catalog.Cache = (*MemoryCache)(nil)
