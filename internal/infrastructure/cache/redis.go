package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"skill-pulse/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a best-effort cache and lock provider. When the server cannot
// reach redis at startup, every operation degrades to a no-op so the rest of
// the system keeps working without it.
type Redis struct {
	client     *redis.Client
	logger     *zap.Logger
	defaultTTL time.Duration

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 600 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Warn("redis unavailable, bypassing cache", zap.Error(err))
		}
		_ = client.Close()
		return &Redis{client: nil, logger: logger, defaultTTL: ttl}
	}

	return &Redis{client: client, logger: logger, defaultTTL: ttl}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis unavailable, bypassing cache", zap.Error(err))
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.isUnavailable() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.isUnavailable() {
		return nil
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if err := r.client.Del(ctx, k).Err(); err != nil {
			if r.logger != nil {
				r.logger.Warn("redis delete failed", zap.String("key", k), zap.Error(err))
			}
		}
	}
	return iter.Err()
}

// SetIfNotExists is the advisory-lock primitive: true means the caller owns
// the key until TTL or Delete. With redis down it reports true so singleton
// jobs still run on a single-instance deployment.
func (r *Redis) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if r.isUnavailable() {
		return true, nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return true, nil
	}
	return ok, nil
}
