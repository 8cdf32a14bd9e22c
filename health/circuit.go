package health

import (
	"context"
	"time"

	"github.com/jonwraymond/jsapisign/resilience"
)

// CircuitSource exposes the state of a circuit breaker.
// *resilience.CircuitBreaker satisfies it.
type CircuitSource interface {
	Snapshot() resilience.CircuitSnapshot
}

// CircuitChecker reports the upstream circuit breaker state: closed is
// Healthy, half-open is Degraded and open is Unhealthy.
type CircuitChecker struct {
	name    string
	breaker CircuitSource
}

// NewCircuitChecker creates a checker named name for breaker.
func NewCircuitChecker(name string, breaker CircuitSource) *CircuitChecker {
	return &CircuitChecker{name: name, breaker: breaker}
}

func (c *CircuitChecker) Name() string {
	return c.name
}

func (c *CircuitChecker) Check(_ context.Context) Result {
	snap := c.breaker.Snapshot()
	details := map[string]any{
		"state":    snap.State.String(),
		"failures": snap.Failures,
	}
	if !snap.LastFailure.IsZero() {
		details["last_failure"] = snap.LastFailure.UTC().Format(time.RFC3339)
	}

	switch snap.State {
	case resilience.StateOpen:
		return Unhealthy("upstream circuit open", resilience.ErrCircuitOpen).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("upstream circuit probing").WithDetails(details)
	default:
		return Healthy("upstream circuit closed").WithDetails(details)
	}
}
