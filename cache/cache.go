package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for cache operations.
var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrNilRefresh = errors.New("cache: refresh function is nil")
	ErrEmptyValue = errors.New("cache: refresh returned an empty value")
)

// RefreshFunc fetches a fresh credential from its issuer.
// It returns the credential and how long the issuer declared it valid for.
type RefreshFunc func(ctx context.Context) (value string, validFor time.Duration, err error)

// Credential is a cached credential and the instant it stops being served.
type Credential struct {
	Value     string
	ExpiresAt time.Time
}

// ValidAt reports whether the credential may be served at t.
func (c Credential) ValidAt(t time.Time) bool {
	return c.Value != "" && t.Before(c.ExpiresAt)
}

// Metrics receives cache lifecycle events.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// Hit is called when a valid cached credential is served.
	Hit(ctx context.Context, name string)

	// Miss is called when the cached credential is absent or expired.
	Miss(ctx context.Context, name string)

	// Refresh is called after every refresh attempt with its outcome.
	Refresh(ctx context.Context, name string, duration time.Duration, err error)
}

// NoopMetrics ignores all events.
type NoopMetrics struct{}

func (NoopMetrics) Hit(context.Context, string)                           {}
func (NoopMetrics) Miss(context.Context, string)                          {}
func (NoopMetrics) Refresh(context.Context, string, time.Duration, error) {}

var _ Metrics = NoopMetrics{}
