// Package cache implementa la caché del resumen de reportes sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/application/reports"
)

const keyPrefix = "papeleria:reports:summary:"

// NewRedis crea el cliente desde REDIS_URL y valida la conexión.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisSummaryCache guarda el resumen serializado en JSON con TTL.
type RedisSummaryCache struct {
	rdb *redis.Client
}

var _ reports.SummaryCache = (*RedisSummaryCache)(nil)

// NewRedisSummaryCache construye la caché.
func NewRedisSummaryCache(rdb *redis.Client) *RedisSummaryCache {
	return &RedisSummaryCache{rdb: rdb}
}

func key(tenantID string) string { return keyPrefix + tenantID }

func (c *RedisSummaryCache) Get(ctx context.Context, tenantID string) (*dto.ReportSummaryDTO, bool, error) {
	raw, err := c.rdb.Get(ctx, key(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var s dto.ReportSummaryDTO
	if err := json.Unmarshal(raw, &s); err != nil {
		// entrada corrupta: se trata como ausente
		return nil, false, nil
	}
	return &s, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, tenantID string, s *dto.ReportSummaryDTO, ttl time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializar resumen: %w", err)
	}
	if err := c.rdb.Set(ctx, key(tenantID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, tenantID string) error {
	if err := c.rdb.Del(ctx, key(tenantID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
