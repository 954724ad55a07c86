package websession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "websession:"

// RedisStorage keeps each browser session in a Redis hash whose TTL is
// refreshed on every access.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewRedisStorage creates a RedisStorage on an existing client.
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func (r *RedisStorage) key(sid string) string {
	return redisKeyPrefix + sid
}

func (r *RedisStorage) Get(ctx context.Context, sid, key string) (string, bool, error) {
	value, err := r.client.HGet(ctx, r.key(sid), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("websession: get %s: %w", key, err)
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, r.key(sid), r.ttl).Err(); err != nil {
			return "", false, fmt.Errorf("websession: refresh ttl: %w", err)
		}
	}
	return value, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, sid, key, value string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.key(sid), key, value)
		if r.ttl > 0 {
			pipe.Expire(ctx, r.key(sid), r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("websession: set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, sid, key string) error {
	if err := r.client.HDel(ctx, r.key(sid), key).Err(); err != nil {
		return fmt.Errorf("websession: delete %s: %w", key, err)
	}
	return nil
}

func (r *RedisStorage) Drop(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, r.key(sid)).Err(); err != nil {
		return fmt.Errorf("websession: drop: %w", err)
	}
	return nil
}
