package redis

// Package redis provides Redis-based adapters for the opsdesk system.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter is a fixed-window failed-attempt counter per login
// identifier. It implements ports.LoginLimiter. The window restarts when
// the key expires; a successful login resets it immediately.
type LoginLimiter struct {
	client      redis.UniversalClient
	prefix      string
	maxAttempts int
	window      time.Duration
}

// LoginLimiterConfig controls limiter behavior.
type LoginLimiterConfig struct {
	MaxAttempts int           // attempts allowed per window; default 10
	Window      time.Duration // default 15m
	Prefix      string        // key prefix; default "login:fail:"
}

// NewLoginLimiter creates a Redis-backed login limiter.
func NewLoginLimiter(client redis.UniversalClient, cfg LoginLimiterConfig) *LoginLimiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "login:fail:"
	}
	return &LoginLimiter{
		client:      client,
		prefix:      cfg.Prefix,
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.Window,
	}
}

// Allow reports whether another attempt may proceed for the identifier.
func (l *LoginLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(identifier)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("redis get: %w", err)
	}
	return count < l.maxAttempts, nil
}

// RecordFailure counts a failed attempt. The expiry is set only when the
// key is created so the window is measured from the first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, identifier string) error {
	key := l.key(identifier)
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	_ = incr
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, identifier string) error {
	if err := l.client.Del(ctx, l.key(identifier)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(identifier string) string {
	return l.prefix + strings.ToLower(strings.TrimSpace(identifier))
}
