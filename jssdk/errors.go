package jssdk

import (
	"errors"
	"fmt"
)

// ErrMissingURL is returned when a signing request carries no page URL.
var ErrMissingURL = errors.New("jssdk: url is required")

// errInvalidUTF8 is reported when percent-decoding yields bytes that are not UTF-8.
var errInvalidUTF8 = errors.New("invalid UTF-8 sequence")

// DecodeError reports a page URL that is not a valid percent-encoded component.
type DecodeError struct {
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("URI malformed: %q: %v", e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
