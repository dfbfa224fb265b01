// Package cache кэширует агрегаты дашборда в Redis.
//
// Кэш — оптимизация с коротким TTL, не источник истины: при
// недоступном Redis или nil-клиенте все операции деградируют в
// no-op и запрос идёт в БД.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL — время жизни закэшированных агрегатов.
const DefaultTTL = 30 * time.Second

// StatsCache — кэш статистики дашборда.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache создаёт StatsCache. client может быть nil —
// тогда кэш выключен.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Get читает закэшированное значение в dest. false — промах или
// кэш выключен.
func (c *StatsCache) Get(ctx context.Context, userID uuid.UUID, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}

	data, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal: %w", err)
	}
	return true, nil
}

// Set записывает значение с TTL.
func (c *StatsCache) Set(ctx context.Context, userID uuid.UUID, value any) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}

	if err := c.client.Set(ctx, statsKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func statsKey(userID uuid.UUID) string {
	return fmt.Sprintf("dashboard:stats:%s", userID)
}
