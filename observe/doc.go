// Package observe provides logging, tracing and metrics for the signing
// service.
//
// An Observer owns the OpenTelemetry tracer and meter providers and a JSON
// structured Logger. Middleware wraps a unit of work (a credential refresh,
// a signing request) in a span, records its outcome and logs it. CacheMetrics
// adapts a meter to the cache package's Metrics hook.
//
// The logger redacts fields whose key names a credential (secret, token,
// ticket and similar), so credential values can be passed as fields without
// reaching the output.
package observe
