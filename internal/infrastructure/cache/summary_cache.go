package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/redis/go-redis/v9"
)

// SummaryKey is the Redis key holding the portfolio summary
const SummaryKey = "ops:notifications:summary"

// RedisSummaryCache stores the portfolio summary as JSON with a TTL
type RedisSummaryCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisSummaryCache creates a summary cache. A non-positive ttl keeps
// entries until the next invalidation.
func NewRedisSummaryCache(client redis.UniversalClient, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func (c *RedisSummaryCache) Get(ctx context.Context) (*notification.PortfolioSummary, error) {
	raw, err := c.client.Get(ctx, SummaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read summary cache: %w", err)
	}

	var s notification.PortfolioSummary
	if err := json.Unmarshal(raw, &s); err != nil {
		// A stale payload from an older release is treated as a miss.
		_ = c.Invalidate(ctx)
		return nil, nil
	}
	return &s, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, s *notification.PortfolioSummary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, SummaryKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write summary cache: %w", err)
	}
	return nil
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, SummaryKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary cache: %w", err)
	}
	return nil
}

var _ notification.SummaryCache = (*RedisSummaryCache)(nil)

// NoopSummaryCache always misses. It is used when Redis is disabled.
type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(context.Context) (*notification.PortfolioSummary, error) { return nil, nil }
func (NoopSummaryCache) Set(context.Context, *notification.PortfolioSummary) error   { return nil }
func (NoopSummaryCache) Invalidate(context.Context) error                            { return nil }

var _ notification.SummaryCache = NoopSummaryCache{}
