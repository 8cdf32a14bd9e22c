// Package health reports whether the signing service can currently serve
// signatures.
//
// A Checker reports Healthy, Degraded or Unhealthy. CredentialChecker
// inspects a credential cache without refreshing it, and CircuitChecker
// reports the state of the upstream circuit breaker. An Aggregator runs all
// registered checkers and derives an overall status, which the HTTP handlers
// expose as liveness, readiness and detailed probes:
//
//	agg := health.NewAggregator()
//	agg.Register("jsapi_ticket", health.NewCredentialChecker(tickets.Cache()))
//	agg.Register("upstream", health.NewCircuitChecker("upstream", breaker))
//	health.RegisterHandlers(router, agg)
//
// Credentials are fetched lazily on the first signing request, so a cache
// that is empty or expired is Degraded rather than Unhealthy: readiness still
// succeeds and the next request refreshes it.
package health
