package querycache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/pkg/metrics"
)

// ValkeyCache shares query results between instances through Valkey.
type ValkeyCache struct {
	client  valkey.Client
	prefix  string
	metrics *metrics.Registry
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string, reg *metrics.Registry) *ValkeyCache {
	if prefix == "" {
		prefix = "trip"
	}
	return &ValkeyCache{client: client, prefix: prefix, metrics: reg}
}

func (c *ValkeyCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	cmd := c.client.B().Get().Key(c.entryKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			c.metrics.ObserveCache("valkey", false)
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return false, err
	}
	c.metrics.ObserveCache("valkey", true)
	return true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

// Close releases the client connections.
func (c *ValkeyCache) Close() error {
	c.client.Close()
	return nil
}

func (c *ValkeyCache) entryKey(key string) string {
	return c.prefix + ":cache:" + key
}

var _ catalog.Cache = (*ValkeyCache)(nil)
