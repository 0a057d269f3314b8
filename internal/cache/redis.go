package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps a redis client with JSON helpers.
type Redis struct {
	client *redis.Client
}

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*Redis, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{client: client}, nil
}

// GetJSON reads key into dest. The bool result is false on a cache miss.
func (r *Redis) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached value %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores val under key with a TTL.
func (r *Redis) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encode cached value %s: %w", key, err)
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}

// Close releases the underlying connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
