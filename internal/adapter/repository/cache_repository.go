package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domainRepo "github.com/coursehub/payment-service/internal/domain/repository"
)

type redisCacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCacheRepository creates a Redis backed cache
func NewRedisCacheRepository(client *redis.Client, logger *zap.Logger) domainRepo.CacheRepository {
	return &redisCacheRepository{
		client: client,
		logger: logger,
	}
}

func (r *redisCacheRepository) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		r.logger.Warn("Redis SET failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *redisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domainRepo.ErrCacheMiss
		}
		r.logger.Warn("Redis GET failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return "", err
	}
	return value, nil
}

func (r *redisCacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("Redis DEL failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}
	return nil
}
