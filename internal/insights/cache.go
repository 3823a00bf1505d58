package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"contentpulse/pkg/logging"
	"contentpulse/pkg/models"
)

// DefaultCacheTTL keeps cached insights fresh enough for dashboard polling
// while absorbing bursts of identical reads.
const DefaultCacheTTL = 60 * time.Second

// Cache is a read-through cache for aggregated insights. All cache failures
// degrade to a miss; the caller recomputes and the request still succeeds.
type Cache struct {
	client goredis.UniversalClient
	ttl    time.Duration
	logger logging.Logger
}

// NewCache creates an insights cache. A zero ttl uses DefaultCacheTTL.
func NewCache(client goredis.UniversalClient, ttl time.Duration, logger logging.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Key builds the cache key for one aggregation request
func (c *Cache) Key(organizationID string, tier models.PlanTier, limit int) string {
	return fmt.Sprintf("insights:%s:%s:%d", organizationID, tier, limit)
}

// Get returns the cached insights for key, or false on miss or error
func (c *Cache) Get(ctx context.Context, key string) (*models.Insights, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.logger.WithError(err).WithField("key", key).Debug("Insights cache read failed")
		}
		return nil, false
	}

	var cached models.Insights
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Dropping undecodable insights cache entry")
		c.client.Del(ctx, key)
		return nil, false
	}
	return &cached, true
}

// Set stores insights under key for the configured TTL
func (c *Cache) Set(ctx context.Context, key string, value models.Insights) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to encode insights for cache")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Debug("Insights cache write failed")
	}
}
