package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds an upstream call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Timeout bounds the duration of an operation.
type Timeout struct {
	timeout time.Duration
}

// NewTimeout creates a timeout wrapper. A non-positive d selects DefaultTimeout.
func NewTimeout(d time.Duration) *Timeout {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &Timeout{timeout: d}
}

// Duration returns the configured bound.
func (t *Timeout) Duration() time.Duration {
	return t.timeout
}

// Execute runs op with a derived deadline. If the deadline passes before op
// returns, Execute returns ErrTimeout without waiting for op; op observes the
// cancellation through its context.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}
