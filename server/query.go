package server

import (
	"net/url"
	"strings"
)

// rawQueryValue returns the first undecoded value of key in rawQuery.
// A key present without "=" yields "" and true.
func rawQueryValue(rawQuery, key string) (string, bool) {
	for rawQuery != "" {
		var pair string
		pair, rawQuery, _ = strings.Cut(rawQuery, "&")
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		if lenientUnescape(k) == key {
			return v, true
		}
	}
	return "", false
}

// lenientUnescape decodes a query component, keeping s unchanged when it
// holds a malformed escape sequence.
func lenientUnescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
