// Package cache stores small JSON documents, such as dashboard statistics,
// in Redis. When Redis is not configured the Noop cache is used and every
// lookup misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "sms:"

var ErrMiss = errors.New("cache miss")

type Cache interface {
	// GetJSON decodes the cached value into dst, or returns ErrMiss.
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

type Options struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedis connects and pings the server so misconfiguration fails at startup.
func NewRedis(ctx context.Context, opts Options, logger *zap.Logger) (*Redis, error) {
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Connected to Redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return &Redis{client: client, logger: logger}, nil
}

func (r *Redis) GetJSON(ctx context.Context, key string, dst any) error {
	raw, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		r.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return ErrMiss
	}
	return nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+key, raw, ttl).Err()
}

func (r *Redis) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = keyPrefix + k
	}
	return r.client.Del(ctx, prefixed...).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) error { return ErrMiss }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Invalidate(context.Context, ...string) error { return nil }
