package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/nikolayk812/cartstate/internal/port"
)

const redisField = "data"

type redisStorage struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) port.Storage {
	return &redisStorage{client: client}
}

// NewRedisClient accepts either a redis:// URL or a bare host:port address.
func NewRedisClient(addr string) *redis.Client {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}

	return redis.NewClient(opts)
}

func (s *redisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	val, err := s.client.HGet(ctx, key, redisField).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("client.HGet: %w", err)
	}

	return val, true, nil
}

func (s *redisStorage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	if err := s.client.HSet(ctx, key, redisField, value).Err(); err != nil {
		return fmt.Errorf("client.HSet: %w", err)
	}

	return nil
}
