// Package http wires the report endpoints: JSON and CSV rendering,
// response caching, and request validation around the statement service.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache stores marshalled report payloads in Redis so repeated
// requests for the same (entity, report, year) skip recomputation. A
// nil client disables caching; every method degrades to a miss.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewReportCache creates the cache. ttl at or below zero falls back to
// five minutes.
func NewReportCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ReportCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(entityID int64, kind string, year int, variant string) string {
	if variant == "" {
		return fmt.Sprintf("report:%d:%s:%d", entityID, kind, year)
	}
	return fmt.Sprintf("report:%d:%s:%d:%s", entityID, kind, year, variant)
}

// Get returns the cached payload, or ok=false on a miss or any cache
// failure. Cache errors never fail a report request.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("report cache get failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	return payload, true
}

// Set stores the payload under the cache TTL, best effort.
func (c *ReportCache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("report cache set failed", slog.String("key", key), slog.Any("error", err))
	}
}

// BustEntity drops every cached report of one entity. Called after
// override rules change so stale classifications never serve.
func (c *ReportCache) BustEntity(ctx context.Context, entityID int64) {
	if c == nil || c.client == nil {
		return
	}
	pattern := fmt.Sprintf("report:%d:*", entityID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("report cache scan failed", slog.Int64("entity_id", entityID), slog.Any("error", err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("report cache bust failed", slog.Int64("entity_id", entityID), slog.Any("error", err))
	}
}
