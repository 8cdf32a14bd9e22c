package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CredentialCache caches a single credential with an absolute expiry.
//
// Contract:
//   - Concurrency: safe for concurrent use. At most one refresh is in flight
//     at a time; concurrent misses wait for it and share its result.
//   - Context: the shared refresh runs detached from any single caller's
//     cancellation so one aborted request cannot fail the others.
//   - Errors: refresh errors are returned unmodified and leave the cached
//     record untouched.
type CredentialCache struct {
	name    string
	policy  Policy
	now     func() time.Time
	metrics Metrics

	mu     sync.RWMutex
	record Credential

	sfGroup singleflight.Group
}

// Option configures a CredentialCache.
type Option func(*CredentialCache)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *CredentialCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(c *CredentialCache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// NewCredentialCache creates an empty cache. name identifies the credential
// in metrics and logs (for example "access_token").
func NewCredentialCache(name string, policy Policy, opts ...Option) *CredentialCache {
	c := &CredentialCache{
		name:    name,
		policy:  policy,
		now:     time.Now,
		metrics: NoopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the credential name.
func (c *CredentialCache) Name() string {
	return c.name
}

// Policy returns the cache policy.
func (c *CredentialCache) Policy() Policy {
	return c.policy
}

// Get returns the cached credential if it is still valid, otherwise it calls
// refresh, stores the result and returns it.
func (c *CredentialCache) Get(ctx context.Context, refresh RefreshFunc) (string, error) {
	if c == nil {
		return "", ErrNilCache
	}
	if refresh == nil {
		return "", ErrNilRefresh
	}

	if value, ok := c.lookup(); ok {
		c.metrics.Hit(ctx, c.name)
		return value, nil
	}
	c.metrics.Miss(ctx, c.name)

	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := c.sfGroup.Do(c.name, func() (any, error) {
		// A flight that finished between our lookup and Do already stored a
		// fresh value.
		if value, ok := c.lookup(); ok {
			return value, nil
		}
		return c.refresh(flightCtx, refresh)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Peek returns the current record and whether it is valid now.
// It never triggers a refresh.
func (c *CredentialCache) Peek() (Credential, bool) {
	c.mu.RLock()
	record := c.record
	c.mu.RUnlock()
	return record, record.ValidAt(c.now())
}

// Invalidate drops the cached credential. The next Get refreshes.
func (c *CredentialCache) Invalidate() {
	c.mu.Lock()
	c.record = Credential{}
	c.mu.Unlock()
}

func (c *CredentialCache) lookup() (string, bool) {
	c.mu.RLock()
	record := c.record
	c.mu.RUnlock()

	if !record.ValidAt(c.now()) {
		return "", false
	}
	return record.Value, true
}

func (c *CredentialCache) refresh(ctx context.Context, refresh RefreshFunc) (string, error) {
	start := c.now()

	value, validFor, err := refresh(ctx)
	if err == nil && value == "" {
		err = ErrEmptyValue
	}
	c.metrics.Refresh(ctx, c.name, c.now().Sub(start), err)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.record = Credential{
		Value:     value,
		ExpiresAt: start.Add(c.policy.Lifetime(validFor)),
	}
	c.mu.Unlock()

	return value, nil
}
