package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/jsapisign/cache"
)

// CredentialSource exposes a cached credential without refreshing it.
// *cache.CredentialCache satisfies it.
type CredentialSource interface {
	Name() string
	Peek() (cache.Credential, bool)
}

// CredentialChecker reports the freshness of a cached credential.
//
// A valid credential is Healthy. An empty or expired one is Degraded, since
// the next signing request refreshes it.
type CredentialChecker struct {
	source CredentialSource
	now    func() time.Time
}

// CredentialCheckerOption configures a CredentialChecker.
type CredentialCheckerOption func(*CredentialChecker)

// WithCheckerClock overrides the time source used for expires_in.
func WithCheckerClock(now func() time.Time) CredentialCheckerOption {
	return func(c *CredentialChecker) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCredentialChecker creates a checker for source.
func NewCredentialChecker(source CredentialSource, opts ...CredentialCheckerOption) *CredentialChecker {
	c := &CredentialChecker{source: source, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CredentialChecker) Name() string {
	return c.source.Name()
}

func (c *CredentialChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	cred, valid := c.source.Peek()
	switch {
	case cred.Value == "":
		return Degraded(fmt.Sprintf("%s not fetched yet", c.source.Name()))
	case !valid:
		return Degraded(fmt.Sprintf("%s expired", c.source.Name())).WithDetails(map[string]any{
			"expires_at": cred.ExpiresAt.UTC().Format(time.RFC3339),
		})
	default:
		remaining := cred.ExpiresAt.Sub(c.now()).Truncate(time.Second)
		return Healthy(fmt.Sprintf("%s valid", c.source.Name())).WithDetails(map[string]any{
			"expires_at": cred.ExpiresAt.UTC().Format(time.RFC3339),
			"expires_in": remaining.String(),
		})
	}
}
