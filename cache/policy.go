package cache

import "time"

// DefaultSafetyMargin is subtracted from every issuer-declared validity.
const DefaultSafetyMargin = 300 * time.Second

// Policy configures credential lifetimes.
type Policy struct {
	// SafetyMargin is subtracted from the issuer-declared validity so a
	// credential is dropped before the issuer stops accepting it.
	// Negative values are treated as zero.
	SafetyMargin time.Duration
}

// DefaultPolicy returns the default policy.
// SafetyMargin: 300 seconds.
func DefaultPolicy() Policy {
	return Policy{SafetyMargin: DefaultSafetyMargin}
}

// Lifetime returns how long a credential declared valid for validFor may be
// served. A validity at or below the margin yields zero: the credential is
// handed to the caller that fetched it but never served from cache.
func (p Policy) Lifetime(validFor time.Duration) time.Duration {
	margin := p.SafetyMargin
	if margin < 0 {
		margin = 0
	}
	lifetime := validFor - margin
	if lifetime < 0 {
		return 0
	}
	return lifetime
}
