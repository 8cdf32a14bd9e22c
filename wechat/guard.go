package wechat

import (
	"errors"
	"time"

	"github.com/jonwraymond/jsapisign/resilience"
)

// GuardConfig configures the resilience wrapper around upstream calls.
type GuardConfig struct {
	// Timeout bounds each upstream call. Default: resilience.DefaultTimeout.
	Timeout time.Duration

	// MaxFailures opens the circuit after this many consecutive transport
	// failures. Zero disables the circuit breaker.
	MaxFailures int

	// ResetTimeout is how long the circuit stays open. Default: 30 seconds.
	ResetTimeout time.Duration

	// OnStateChange observes circuit transitions.
	OnStateChange func(from, to resilience.State)
}

// NewGuard builds an executor for Config.Executor. Only transport failures
// and timeouts count against the circuit; a well-formed error payload means
// the upstream is reachable.
func NewGuard(config GuardConfig) *resilience.Executor {
	opts := []resilience.ExecutorOption{
		resilience.WithTimeout(config.Timeout),
	}
	if config.MaxFailures > 0 {
		opts = append(opts, resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			MaxFailures:   config.MaxFailures,
			ResetTimeout:  config.ResetTimeout,
			IsFailure:     isUpstreamUnavailable,
			OnStateChange: config.OnStateChange,
		})))
	}
	return resilience.NewExecutor(opts...)
}

func isUpstreamUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, resilience.ErrTimeout) || IsTransport(err) {
		return true
	}
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.StatusCode >= 500
	}
	return false
}
