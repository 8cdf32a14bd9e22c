package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawQueryValue(t *testing.T) {
	tests := []struct {
		name      string
		rawQuery  string
		wantValue string
		wantFound bool
	}{
		{"empty", "", "", false},
		{"absent", "a=1&b=2", "", false},
		{"plain", "url=http%3A%2F%2Fx.com", "http%3A%2F%2Fx.com", true},
		{"first wins", "url=a&url=b", "a", true},
		{"no equals", "url", "", true},
		{"empty value", "url=", "", true},
		{"encoded key", "%75rl=x", "x", true},
		{"skips empty pairs", "&&url=x", "x", true},
		{"malformed value kept raw", "url=%E0%A4%A", "%E0%A4%A", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := rawQueryValue(tt.rawQuery, "url")
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantValue, got)
		})
	}
}

func TestLenientUnescape(t *testing.T) {
	assert.Equal(t, "http://x.com/?a=1", lenientUnescape("http%3A%2F%2Fx.com%2F%3Fa%3D1"))
	assert.Equal(t, "a b", lenientUnescape("a+b"))
	assert.Equal(t, "%zz", lenientUnescape("%zz"))
}
