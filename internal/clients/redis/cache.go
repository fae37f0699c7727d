package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/markoori/variant-backend/internal/domain"
	"github.com/markoori/variant-backend/internal/platform/envutil"
	"github.com/markoori/variant-backend/internal/platform/logger"
)

const activeExperimentsKey = "experiments:active"

// ConfigCache is a read-through cache of the active-experiment list that
// backs /api/config. Misses fall through to the repository; admin
// mutations invalidate. A stale window of CONFIG_CACHE_TTL is acceptable
// because assignment is deterministic per experiment identifier.
type ConfigCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewConfigCache returns (nil, nil) when REDIS_ADDR is unset; the cache
// is optional and callers must tolerate running without one.
func NewConfigCache(log *logger.Logger) (*ConfigCache, error) {
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		return nil, nil
	}
	ttlSeconds := envutil.Int("CONFIG_CACHE_TTL", 30)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ConfigCache{
		log: log.With("client", "ConfigCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (c *ConfigCache) Get(ctx context.Context) ([]*domain.Experiment, bool) {
	raw, err := c.rdb.Get(ctx, activeExperimentsKey).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("cache read failed", "error", err)
		}
		return nil, false
	}
	var experiments []*domain.Experiment
	if err := json.Unmarshal(raw, &experiments); err != nil {
		c.log.Warn("cache entry corrupt, dropping", "error", err)
		_ = c.rdb.Del(ctx, activeExperimentsKey).Err()
		return nil, false
	}
	return experiments, true
}

func (c *ConfigCache) Set(ctx context.Context, experiments []*domain.Experiment) {
	raw, err := json.Marshal(experiments)
	if err != nil {
		c.log.Warn("cache encode failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, activeExperimentsKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "error", err)
	}
}

func (c *ConfigCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, activeExperimentsKey).Err(); err != nil {
		c.log.Warn("cache invalidate failed", "error", err)
	}
}

func (c *ConfigCache) Close() error {
	return c.rdb.Close()
}
