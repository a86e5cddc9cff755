package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrRedisUnavailable = errors.New("rate limit redis unavailable")
)

type Scope string

const (
	ScopeLogin  Scope = "login"
	ScopeForgot Scope = "forgot"
	ScopeUpload Scope = "upload"
)

type Rule struct {
	Attempts int
	Window   time.Duration
}

// Limiter counts attempts per scope and key in fixed Redis windows.
type Limiter struct {
	client redis.UniversalClient
	prefix string
	rules  map[Scope]Rule
}

func NewLimiter(client redis.UniversalClient, prefix string, rules map[Scope]Rule) *Limiter {
	if prefix == "" {
		prefix = "portal"
	}
	return &Limiter{client: client, prefix: prefix, rules: rules}
}

// Allow records one attempt. Scopes without a rule are unlimited.
func (l *Limiter) Allow(ctx context.Context, scope Scope, key string) error {
	rule, ok := l.rules[scope]
	if !ok || rule.Attempts <= 0 || key == "" {
		return nil
	}

	k := l.key(scope, key)
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, k, rule.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	if count > int64(rule.Attempts) {
		return ErrRateLimited
	}
	return nil
}

// AllowAll checks every key and reports the first limit hit.
func (l *Limiter) AllowAll(ctx context.Context, scope Scope, keys ...string) error {
	for _, key := range keys {
		if err := l.Allow(ctx, scope, key); err != nil {
			return err
		}
	}
	return nil
}

func (l *Limiter) Reset(ctx context.Context, scope Scope, key string) error {
	if err := l.client.Del(ctx, l.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *Limiter) key(scope Scope, key string) string {
	return l.prefix + ":rl:" + string(scope) + ":" + strings.ToLower(strings.TrimSpace(key))
}
