package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding cached bodies
const DefaultRedisKey = "travel-forecast:cache"

// RedisStore is a Store backed by a single Redis hash
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, key: DefaultRedisKey}
}

// ConnectRedis parses redisURL, creates a client and verifies it with a ping
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// Get implements Store
func (s *RedisStore) Get(ctx context.Context, url string) (string, bool, error) {
	body, err := s.client.HGet(ctx, s.key, url).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache get for %s: %w", url, err)
	}
	return body, true, nil
}

// Put implements Store
func (s *RedisStore) Put(ctx context.Context, url, body string) error {
	if err := s.client.HSet(ctx, s.key, url, body).Err(); err != nil {
		return fmt.Errorf("cache put for %s: %w", url, err)
	}
	return nil
}

// Clear implements Store
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Len implements Store
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache len: %w", err)
	}
	return int(n), nil
}
