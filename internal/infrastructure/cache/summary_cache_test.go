package cache

import (
	"context"
	"testing"
	"time"

	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopSummaryCache(t *testing.T) {
	ctx := context.Background()
	c := NoopSummaryCache{}

	require.NoError(t, c.Set(ctx, &notification.PortfolioSummary{ProjectCount: 3}))
	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Invalidate(ctx))
}

func TestRedisSummaryCache_WrapsConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewRedisSummaryCache(client, time.Minute)

	_, err := c.Get(context.Background())
	assert.ErrorContains(t, err, "failed to read summary cache")
	assert.ErrorContains(t, c.Invalidate(context.Background()), "failed to invalidate summary cache")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := NewRedisClient(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
}
