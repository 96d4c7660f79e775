package persistence

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"jobboard/internal/config"
)

const redisKeyPrefix = "jobboard:persist:"

// RedisKV keeps snapshots as plain redis strings without expiry.
type RedisKV struct {
	client *redis.Client
	logger *log.Logger
}

// OpenRedis connects and pings. Unlike the search cache, a persistence
// backend that cannot be reached is an error.
func OpenRedis(ctx context.Context, cfg config.RedisConfig, logger *log.Logger) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisKV(client, logger), nil
}

func NewRedisKV(client *redis.Client, logger *log.Logger) *RedisKV {
	return &RedisKV{client: client, logger: logger}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r == nil || r.client == nil {
		return nil, false, ErrClosed
	}
	b, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if r == nil || r.client == nil {
		return ErrClosed
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		if r.logger != nil {
			r.logger.Printf("[Persist] Redis set error key=%s err=%v", key, err)
		}
		return err
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if r == nil || r.client == nil {
		return ErrClosed
	}
	return r.client.Del(ctx, redisKeyPrefix+key).Err()
}

func (r *RedisKV) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

var _ KV = (*RedisKV)(nil)
