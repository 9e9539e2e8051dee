// Package redis holds the Redis-backed per-email attempt limiter.
package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/travel-atlas/internal/config"
)

const allowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

const keyPrefix = "otp:rl:"

type evaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Limiter counts attempts per key in a fixed window. Redis errors let the
// attempt through.
type Limiter struct {
	client evaler
	window time.Duration
	max    int
}

func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func NewLimiter(client *redis.Client, window time.Duration, max int) *Limiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &Limiter{client: client, window: window, max: max}
}

func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	// Keys are used as given; emails differing only in case are separate accounts.
	if strings.TrimSpace(key) == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, allowScript, []string{keyPrefix + key}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
