package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	appAuth "github.com/rcarvalho-pb/debt_payment-go/internal/application/auth"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/logging"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type RedisCache struct {
	Client *redis.Client
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

// CachingValidator remembers successful validations so a busy client does
// not hit the identity provider on every request. Failures are never cached,
// and cache errors fall through to Next.
type CachingValidator struct {
	Next   appAuth.TokenValidator
	Cache  Cache
	TTL    time.Duration
	Logger logging.Logger
	Now    func() time.Time
}

func (c *CachingValidator) Validate(ctx context.Context, token string) (*appAuth.Principal, error) {
	key := cacheKey(token)

	cached, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		c.logger().Warn("token cache read failed", map[string]any{"error": err.Error()})
	}
	if ok {
		var p appAuth.Principal
		if err := json.Unmarshal([]byte(cached), &p); err == nil && (p.ExpiresAt.IsZero() || p.ExpiresAt.After(c.now())) {
			return &p, nil
		}
	}

	principal, err := c.Next.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	ttl := c.TTL
	if !principal.ExpiresAt.IsZero() {
		ttl = min(ttl, principal.ExpiresAt.Sub(c.now()))
	}
	if ttl <= 0 {
		return principal, nil
	}

	data, _ := json.Marshal(principal)
	if err := c.Cache.Set(ctx, key, string(data), ttl); err != nil {
		c.logger().Warn("token cache write failed", map[string]any{"error": err.Error()})
	}

	return principal, nil
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:token:" + hex.EncodeToString(sum[:])
}

func (c *CachingValidator) logger() logging.Logger {
	if c.Logger == nil {
		return logging.Nop{}
	}
	return c.Logger
}

func (c *CachingValidator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
