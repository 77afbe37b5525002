package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/UshurbakiyevDavlat/Marketing-App/internal/analytics"
	"github.com/UshurbakiyevDavlat/Marketing-App/internal/metrics"
)

// MetricsCache caches computed campaign metrics in Redis. The analytics
// engine itself is cache-free; callers decide when cached results are
// acceptable and invalidate on ingest.
type MetricsCache struct {
	client  *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewMetricsCache creates a Redis-backed metric cache with the given TTL.
func NewMetricsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *MetricsCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsCache{
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

func campaignKey(campaignID string) string {
	return fmt.Sprintf("metrics:campaign:%s", campaignID)
}

// Get returns cached metrics for a campaign, or (nil, nil) on a miss.
func (c *MetricsCache) Get(ctx context.Context, campaignID string) (*analytics.Metrics, error) {
	data, err := c.client.Get(ctx, campaignKey(campaignID)).Bytes()
	if errors.Is(err, redis.Nil) {
		if c.metrics != nil {
			c.metrics.RecordCacheMiss()
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached metrics: %w", err)
	}

	var m analytics.Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		// Stale or corrupt entry, drop it and treat as a miss.
		c.logger.Warn("dropping unreadable cache entry",
			zap.String("campaign_id", campaignID),
			zap.Error(err),
		)
		_ = c.client.Del(ctx, campaignKey(campaignID)).Err()
		if c.metrics != nil {
			c.metrics.RecordCacheMiss()
		}
		return nil, nil
	}

	if c.metrics != nil {
		c.metrics.RecordCacheHit()
	}
	return &m, nil
}

// Set stores computed metrics for a campaign.
func (c *MetricsCache) Set(ctx context.Context, campaignID string, m analytics.Metrics) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	if err := c.client.Set(ctx, campaignKey(campaignID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache metrics: %w", err)
	}
	return nil
}

// Invalidate removes the cached metrics for a campaign. Called after new
// events are ingested so readers never see counts older than the TTL
// would allow.
func (c *MetricsCache) Invalidate(ctx context.Context, campaignID string) error {
	if err := c.client.Del(ctx, campaignKey(campaignID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached metrics: %w", err)
	}
	return nil
}
