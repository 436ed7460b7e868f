// Package ratelimit is a fixed window rate limiter shared between instances through
// Redis. Each (operation, identity) pair is one counter key that expires with its window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "canteen:ratelimit:"

// Limit is the number of attempts allowed per window.
type Limit struct {
	Max    int
	Window time.Duration
}

type Limiter struct {
	client   redis.Cmdable
	prefix   string
	limits   map[string]Limit
	fallback Limit
}

// New builds a limiter on client. Operations missing from limits use fallback.
func New(client redis.Cmdable, fallback Limit, limits map[string]Limit) *Limiter {
	return &Limiter{
		client:   client,
		prefix:   defaultPrefix,
		limits:   limits,
		fallback: fallback,
	}
}

// Allow increments the counter and starts its expiry on the first attempt of a window.
func (l *Limiter) Allow(ctx context.Context, identity, operation string) (bool, time.Duration, error) {
	limit := l.limitFor(operation)
	key := l.key(identity, operation)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("count attempt: %w", err)
	}

	if count == 1 {
		if err := l.client.PExpire(ctx, key, limit.Window).Err(); err != nil {
			return false, 0, fmt.Errorf("start window: %w", err)
		}
	}

	if count <= int64(limit.Max) {
		return true, 0, nil
	}

	ttl, err := l.client.PTTL(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("read window: %w", err)
	}
	// A key left without expiry by a crash between INCR and PEXPIRE would block forever.
	if ttl < 0 {
		if err := l.client.PExpire(ctx, key, limit.Window).Err(); err != nil {
			return false, 0, fmt.Errorf("start window: %w", err)
		}
		ttl = limit.Window
	}
	return false, ttl, nil
}

func (l *Limiter) key(identity, operation string) string {
	return l.prefix + operation + ":" + identity
}

func (l *Limiter) limitFor(operation string) Limit {
	if limit, ok := l.limits[operation]; ok {
		return limit
	}
	return l.fallback
}
