package jssdk

import "math/rand/v2"

// DefaultNonceLength is the nonce length used for page signatures.
const DefaultNonceLength = 16

const nonceAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewNonce returns a random alphanumeric string of the given length.
// Lengths <= 0 use DefaultNonceLength.
//
// The nonce only makes a signature unique; it is not a secret and is not
// drawn from a cryptographic source.
func NewNonce(length int) string {
	if length <= 0 {
		length = DefaultNonceLength
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = nonceAlphabet[rand.IntN(len(nonceAlphabet))]
	}
	return string(b)
}
