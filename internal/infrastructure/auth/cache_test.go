package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appAuth "github.com/rcarvalho-pb/debt_payment-go/internal/application/auth"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/auth"
)

type memoryCache struct {
	values map[string]string
	ttls   map[string]time.Duration
	failOn bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	if m.failOn {
		return "", false, errors.New("redis down")
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if m.failOn {
		return errors.New("redis down")
	}
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

type countingValidator struct {
	calls     int
	principal *appAuth.Principal
	err       error
}

func (c *countingValidator) Validate(context.Context, string) (*appAuth.Principal, error) {
	c.calls++
	return c.principal, c.err
}

func TestCachingValidator_CachesSuccess(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	next := &countingValidator{principal: &appAuth.Principal{
		Subject:   "user1",
		Roles:     []string{"payment_admin"},
		ExpiresAt: now.Add(2 * time.Minute),
	}}
	cache := newMemoryCache()

	v := &auth.CachingValidator{Next: next, Cache: cache, TTL: 5 * time.Minute, Now: func() time.Time { return now }}

	for n := 0; n < 3; n++ {
		p, err := v.Validate(context.Background(), "tok")
		require.NoError(t, err)
		require.True(t, p.HasRole("payment_admin"))
	}

	require.Equal(t, 1, next.calls)
	for _, ttl := range cache.ttls {
		require.Equal(t, 2*time.Minute, ttl, "ttl is capped by token expiry")
	}
}

func TestCachingValidator_DoesNotCacheFailures(t *testing.T) {
	next := &countingValidator{err: appAuth.ErrInvalidToken}
	cache := newMemoryCache()
	v := &auth.CachingValidator{Next: next, Cache: cache, TTL: time.Minute}

	_, err := v.Validate(context.Background(), "tok")
	require.ErrorIs(t, err, appAuth.ErrInvalidToken)
	_, _ = v.Validate(context.Background(), "tok")

	require.Equal(t, 2, next.calls)
	require.Empty(t, cache.values)
}

func TestCachingValidator_FallsThroughOnCacheErrors(t *testing.T) {
	next := &countingValidator{principal: &appAuth.Principal{Subject: "user1"}}
	v := &auth.CachingValidator{Next: next, Cache: &memoryCache{failOn: true}, TTL: time.Minute}

	p, err := v.Validate(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "user1", p.Subject)
}
