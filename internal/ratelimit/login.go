package ratelimit

import (
	"context"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/upeonet/mtandao/internal/config"
)

const keyLoginFailures = "auth:login:failures:"

// LoginLimiter tracks failed sign-in attempts per email in redis. Past the
// threshold further attempts are refused until the window expires. A nil
// limiter (redis not configured) allows everything.
type LoginLimiter struct {
	client    *redis.Client
	threshold int
	window    time.Duration
}

func NewLoginLimiter(cfg config.Config) *LoginLimiter {
	addr := strings.TrimSpace(cfg.Redis.Addr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	threshold := cfg.Lockout.Threshold
	if threshold <= 0 {
		threshold = 5
	}
	window := cfg.Lockout.Window
	if window <= 0 {
		window = 15 * time.Minute
	}

	return &LoginLimiter{
		client:    client,
		threshold: threshold,
		window:    window,
	}
}

// Blocked reports whether the email has reached the failure threshold.
func (l *LoginLimiter) Blocked(ctx context.Context, email string) (bool, error) {
	if l == nil || l.client == nil {
		return false, nil
	}
	count, err := l.client.Get(ctx, l.key(email)).Int64()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return count >= int64(l.threshold), nil
}

// RecordFailure increments the failure counter and returns the new count.
// The window TTL is set on first failure only, so the lockout expires a
// fixed time after the first failed attempt.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) (int64, error) {
	if l == nil || l.client == nil {
		return 0, nil
	}
	key := l.key(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginLimiter) Threshold() int {
	if l == nil {
		return 0
	}
	return l.threshold
}

func (l *LoginLimiter) key(email string) string {
	return keyLoginFailures + strings.ToLower(strings.TrimSpace(email))
}
