package jssdk

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strconv"
	"unicode/utf8"
)

// Sign computes the page signature: the lowercase hex SHA-1 of
// "jsapi_ticket=<ticket>&noncestr=<nonce>&timestamp=<timestamp>&url=<pageURL>".
// pageURL is used verbatim.
func Sign(ticket, nonce string, timestamp int64, pageURL string) string {
	s := "jsapi_ticket=" + ticket +
		"&noncestr=" + nonce +
		"&timestamp=" + strconv.FormatInt(timestamp, 10) +
		"&url=" + pageURL
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// DecodeComponent percent-decodes a URI component. Every '%' must start a
// valid escape and the result must be UTF-8; '+' is left as is.
func DecodeComponent(s string) (string, error) {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", &DecodeError{Value: s, Err: err}
	}
	if !utf8.ValidString(decoded) {
		return "", &DecodeError{Value: s, Err: errInvalidUTF8}
	}
	return decoded, nil
}
