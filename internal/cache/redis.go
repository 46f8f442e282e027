package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cinefuse/cinefuse/internal/config"
	"github.com/cinefuse/cinefuse/pkg/models"
)

// RedisScoreCache backs the engine's score cache with Redis. Entries are
// JSON-encoded scored item lists under the engine's fusion keys. Cache
// failures only cost a recompute, so they are logged and swallowed.
type RedisScoreCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// New connects to Redis per config and verifies the connection. A nil
// return with nil error means caching is disabled.
func New(cfg *config.RedisConfig, logger *logrus.Logger) (*RedisScoreCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info("Redis connection established")
	return &RedisScoreCache{client: client, ttl: cfg.TTL, logger: logger}, nil
}

func (c *RedisScoreCache) Get(key string) ([]models.ScoredItem, bool) {
	cached := c.client.Get(context.Background(), key).Val()
	if cached == "" {
		return nil, false
	}

	var items []models.ScoredItem
	if err := json.Unmarshal([]byte(cached), &items); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Discarding undecodable cache entry")
		return nil, false
	}
	return items, true
}

func (c *RedisScoreCache) Set(key string, items []models.ScoredItem) {
	data, err := json.Marshal(items)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to encode scores for cache")
		return
	}

	if err := c.client.Set(context.Background(), key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to cache scores")
	}
}

func (c *RedisScoreCache) Close() error {
	return c.client.Close()
}
