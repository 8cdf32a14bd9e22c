// Package resilience guards calls to upstream services.
//
// Two patterns are provided and composed by Executor:
//
//   - Timeout bounds how long a single call may take.
//   - CircuitBreaker stops calling an upstream that keeps failing at the
//     transport level and lets one probe through after a cool-down.
//
// Neither pattern retries. A failed call is reported to the caller as is.
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 30 * time.Second,
//	    })),
//	    resilience.WithTimeout(10*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return callUpstream(ctx)
//	})
package resilience
