package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"campusfix/internal/config"
	"campusfix/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	pageViewsKey = "campusfix:page_views"
	eventLogKey  = "campusfix:events"
)

// RedisAnalyticsRepository persists page views and the event log in Redis
// so analytics survive restarts.
type RedisAnalyticsRepository struct {
	client   *redis.Client
	logLimit int64
}

// NewRedisClient builds a client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisAnalyticsRepository(client *redis.Client, eventLimit int) *RedisAnalyticsRepository {
	if eventLimit <= 0 {
		eventLimit = models.EventLogLimit
	}
	return &RedisAnalyticsRepository{client: client, logLimit: int64(eventLimit)}
}

func (r *RedisAnalyticsRepository) AddPageView(ctx context.Context) (int64, error) {
	if r.client == nil {
		return 0, fmt.Errorf("redis client is nil")
	}
	count, err := r.client.Incr(ctx, pageViewsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment page views: %w", err)
	}
	return count, nil
}

func (r *RedisAnalyticsRepository) PageViews(ctx context.Context) (int64, error) {
	if r.client == nil {
		return 0, fmt.Errorf("redis client is nil")
	}
	count, err := r.client.Get(ctx, pageViewsKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get page views: %w", err)
	}
	return count, nil
}

func (r *RedisAnalyticsRepository) RecordEvent(ctx context.Context, event models.Event) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, eventLogKey, raw)
	pipe.LTrim(ctx, eventLogKey, 0, r.logLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

func (r *RedisAnalyticsRepository) RecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if limit <= 0 {
		limit = int(r.logLimit)
	}

	raw, err := r.client.LRange(ctx, eventLogKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}

	events := make([]models.Event, 0, len(raw))
	for _, item := range raw {
		var event models.Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			// Corrupted entries are skipped, not fatal.
			continue
		}
		events = append(events, event)
	}
	return events, nil
}
