package wechat

import (
	"errors"
	"fmt"
)

// Sentinel errors for upstream calls.
var (
	// ErrTransport indicates the round trip itself failed (DNS, dial, timeout, reset).
	ErrTransport = errors.New("wechat: transport failure")

	// ErrMissingField indicates a response without the expected credential field.
	ErrMissingField = errors.New("wechat: response missing credential field")
)

// Operation names used in UpstreamError.Op.
const (
	OpAccessToken = "access_token"
	OpJSAPITicket = "jsapi_ticket"
)

// Error codes returned by the platform when the access token is unusable.
const (
	ErrCodeInvalidCredential  = 40001
	ErrCodeInvalidAccessToken = 40014
	ErrCodeAccessTokenExpired = 42001
)

// UpstreamError reports a failed credential exchange.
//
// Body carries the raw response for diagnosis when one was received. It may
// echo request parameters; it never contains the application secret unless
// the platform itself echoes it.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
	ErrCode    int
	ErrMsg     string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Body != "" && e.Err != nil && !errors.Is(e.Err, ErrMissingField):
		return fmt.Sprintf("failed to get %s: %v: %s", e.Op, e.Err, e.Body)
	case e.Body != "":
		return fmt.Sprintf("failed to get %s: %s", e.Op, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("failed to get %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("failed to get %s", e.Op)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is an upstream transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsAccessTokenRejected reports whether the platform rejected the access
// token used for a request, meaning any cached copy is no longer usable.
func IsAccessTokenRejected(err error) bool {
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		return false
	}
	switch upstreamErr.ErrCode {
	case ErrCodeInvalidCredential, ErrCodeInvalidAccessToken, ErrCodeAccessTokenExpired:
		return true
	default:
		return false
	}
}
