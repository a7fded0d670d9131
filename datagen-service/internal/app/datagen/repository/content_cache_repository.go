package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"matjip/datagen-service/internal/app/datagen/entity"
	"matjip/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName        = "datagen-service"
	contentCachePrefix = "review:content:"
)

// contentCacheRepository реализует ContentCacheRepository поверх Redis.
// Кэш экономит повторные обращения к внешнему сервису генерации:
// один и тот же ресторан встречается во многих слотах.
type contentCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewContentCacheRepository создает новый репозиторий кэша контента
func NewContentCacheRepository(client *redis.Client, ttl time.Duration) ContentCacheRepository {
	return &contentCacheRepository{
		client: client,
		ttl:    ttl,
	}
}

// GetMultiple получает закэшированный контент батчем через Pipeline
func (r *contentCacheRepository) GetMultiple(ctx context.Context, keys []string) (map[string]entity.CachedReview, error) {
	if len(keys) == 0 {
		return map[string]entity.CachedReview{}, nil
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	pipe := r.client.Pipeline()

	cmds := make(map[string]*redis.StringCmd, len(keys))
	for _, key := range keys {
		cmds[key] = pipe.Get(ctx, contentCachePrefix+key)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get cached content: %w", err)
	}

	result := make(map[string]entity.CachedReview)
	for key, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				metrics.RecordCacheMiss(serviceName, contentCachePrefix)
				continue
			}
			metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
			return nil, fmt.Errorf("failed to get cached content for %s: %w", key, err)
		}

		var cached entity.CachedReview
		if err := json.Unmarshal([]byte(data), &cached); err != nil {
			// Повреждённая запись равнозначна промаху
			metrics.RecordCacheMiss(serviceName, contentCachePrefix)
			continue
		}

		metrics.RecordCacheHit(serviceName, contentCachePrefix)
		result[key] = cached
	}

	return result, nil
}

// SetMultiple сохраняет сгенерированный контент батчем с TTL
func (r *contentCacheRepository) SetMultiple(ctx context.Context, entries map[string]entity.CachedReview) error {
	if len(entries) == 0 {
		return nil
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	pipe := r.client.Pipeline()

	for key, cached := range entries {
		data, err := json.Marshal(cached)
		if err != nil {
			return fmt.Errorf("failed to marshal cached content for %s: %w", key, err)
		}
		pipe.Set(ctx, contentCachePrefix+key, data, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set cached content: %w", err)
	}

	return nil
}
