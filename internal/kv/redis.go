package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string // Redis server address (host:port)
	Password string // Redis password (optional)
	DB       int    // Redis database number
	Prefix   string // prepended to every key (optional)
}

// Redis stores values as plain Redis strings.
type Redis struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			// Best-effort close on failed connect.
			_ = cerr
		}
		return nil, storeErr("redis", "open", "", fmt.Errorf("connect %s: %w", cfg.Addr, err))
	}
	return &Redis{client: client, prefix: cfg.Prefix}, nil
}

func (s *Redis) key(key string) string {
	return s.prefix + key
}

// Get implements Store.
func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr("redis", "get", key, err)
	}
	return value, true, nil
}

// Set implements Store.
func (s *Redis) Set(ctx context.Context, key, value string) error {
	return storeErr("redis", "set", key, s.client.Set(ctx, s.key(key), value, 0).Err())
}

// Delete implements Store.
func (s *Redis) Delete(ctx context.Context, key string) error {
	return storeErr("redis", "delete", key, s.client.Del(ctx, s.key(key)).Err())
}

// Close closes the Redis connection.
func (s *Redis) Close() error {
	return s.client.Close()
}
