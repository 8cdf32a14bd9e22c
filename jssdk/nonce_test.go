package jssdk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNonce_Shape(t *testing.T) {
	for _, length := range []int{1, 8, DefaultNonceLength, 64} {
		nonce := NewNonce(length)
		assert.Len(t, nonce, length)
		for _, r := range nonce {
			assert.True(t, strings.ContainsRune(nonceAlphabet, r), "unexpected character %q", r)
		}
	}
}

func TestNewNonce_DefaultLength(t *testing.T) {
	assert.Len(t, NewNonce(0), DefaultNonceLength)
	assert.Len(t, NewNonce(-3), DefaultNonceLength)
}

func TestNewNonce_Alphabet(t *testing.T) {
	assert.Len(t, nonceAlphabet, 62)
}

func TestNewNonce_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		seen[NewNonce(DefaultNonceLength)] = struct{}{}
	}
	// 62^16 possibilities; a repeat in 100 draws means the source is broken.
	assert.Len(t, seen, 100)
}
