// Package server exposes the signing service over HTTP.
//
// Routes:
//
//	GET  /sign?url=<encoded page URL>     JS-SDK signature for the page
//	GET  /healthz, /readyz, /health       probes (see package health)
//	GET  /metrics                         Prometheus exposition, when configured
//	POST /admin/credentials/invalidate    drop cached credentials, bearer auth
//
// Failures on /sign answer 500 with {"error": "<message>"}.
package server
