package auth

import (
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	for _, err := range []error{
		ErrMissingCredentials,
		ErrInvalidCredentials,
		ErrTokenExpired,
		ErrTokenMalformed,
		ErrKeyNotFound,
		ErrForbidden,
	} {
		if !strings.HasPrefix(err.Error(), "auth: ") {
			t.Errorf("%q lacks the package prefix", err)
		}
	}
}
