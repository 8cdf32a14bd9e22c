package resilience

import "errors"

// Errors returned by Executor when an upstream call never completes.
// wechat wraps both as transport failures.
var (
	// ErrCircuitOpen rejects a call while the breaker is open, without
	// contacting the upstream.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout reports a call that outlived its Timeout.
	ErrTimeout = errors.New("resilience: call timed out")
)
