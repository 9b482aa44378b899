// Copyright (c) 2026 Vidora. All rights reserved.

package channel

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidora/vidora/internal/platform/constants"
)

// countsCacheTTL keeps the counts fresh enough for a channel page while
// absorbing read bursts. Subscriptions tolerate this much staleness.
const countsCacheTTL = 30 * time.Second

// RedisCountsCache implements [CountsCache] on Redis. All Redis failures
// are logged and reported as cache misses; the caller falls back to SQL.
type RedisCountsCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisCountsCache creates the channel-counts cache.
func NewRedisCountsCache(client *redis.Client, logger *slog.Logger) *RedisCountsCache {
	return &RedisCountsCache{
		client: client,
		logger: logger,
	}
}

// Get returns the cached counts for a channel, or (nil, nil) on a miss.
func (cache *RedisCountsCache) Get(ctx context.Context, channelID string) (*Counts, error) {
	payload, err := cache.client.Get(ctx, cache.key(channelID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.Warn("channel_counts_cache_get_failed", slog.Any("error", err))
		}
		return nil, nil
	}

	var counts Counts
	if err := json.Unmarshal(payload, &counts); err != nil {
		// A corrupt entry is a miss; it will be overwritten shortly.
		cache.logger.Warn("channel_counts_cache_corrupt", slog.String("channel_id", channelID))
		return nil, nil
	}

	return &counts, nil
}

// Set stores the counts with the standard TTL.
func (cache *RedisCountsCache) Set(ctx context.Context, channelID string, counts *Counts) error {
	payload, err := json.Marshal(counts)
	if err != nil {
		return err
	}

	if err := cache.client.Set(ctx, cache.key(channelID), payload, countsCacheTTL).Err(); err != nil {
		cache.logger.Warn("channel_counts_cache_set_failed", slog.Any("error", err))
	}

	return nil
}

func (cache *RedisCountsCache) key(channelID string) string {
	return constants.RedisPrefixChannelCounts + channelID
}
