// Package cache provides a single-value credential cache with absolute expiry.
//
// A CredentialCache holds one upstream credential (an access token, a ticket)
// and serves it until it expires. On a miss it invokes a caller-supplied
// RefreshFunc, stores the result with a lifetime shortened by the Policy's
// safety margin, and returns it. Concurrent misses share one refresh.
//
// Refresh failures are never cached: the previous record is left as it was
// and the error is returned to every caller waiting on that refresh.
package cache
