package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testKey = []byte("test-secret-key-at-least-32-bytes")

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func bearer(token string) *AuthRequest {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return &AuthRequest{Headers: h}
}

func TestNewJWTAuthenticator_Defaults(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{}, NewStaticKeyProvider(testKey))

	if a.Name() != "jwt" {
		t.Errorf("Name() = %v, want jwt", a.Name())
	}
	if a.config.HeaderName != "Authorization" || a.config.TokenPrefix != "Bearer " {
		t.Errorf("unexpected header defaults: %+v", a.config)
	}
	if a.config.PrincipalClaim != "sub" || a.config.RolesClaim != "roles" {
		t.Errorf("unexpected claim defaults: %+v", a.config)
	}
}

func TestJWTAuthenticator_Supports(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{}, NewStaticKeyProvider(testKey))

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"no header", "", false},
		{"bearer", "Bearer token123", true},
		{"basic", "Basic abc123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			if got := a.Supports(context.Background(), &AuthRequest{Headers: h}); got != tt.want {
				t.Errorf("Supports() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJWTAuthenticator_Authenticate(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{
		Issuer:        "ops",
		Audience:      "jsapisign",
		RequireExpiry: true,
	}, NewStaticKeyProvider(testKey))

	now := time.Now()
	valid := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub":   "oncall",
			"iss":   "ops",
			"aud":   "jsapisign",
			"exp":   now.Add(time.Hour).Unix(),
			"iat":   now.Unix(),
			"roles": []any{"admin", "reader"},
		}
	}
	with := func(k string, v any) jwt.MapClaims {
		c := valid()
		if v == nil {
			delete(c, k)
		} else {
			c[k] = v
		}
		return c
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid", signToken(t, jwt.SigningMethodHS256, testKey, valid()), nil},
		{"hs512", signToken(t, jwt.SigningMethodHS512, testKey, valid()), nil},
		{"expired", signToken(t, jwt.SigningMethodHS256, testKey, with("exp", now.Add(-time.Hour).Unix())), ErrTokenExpired},
		{"missing exp", signToken(t, jwt.SigningMethodHS256, testKey, with("exp", nil)), ErrInvalidCredentials},
		{"wrong issuer", signToken(t, jwt.SigningMethodHS256, testKey, with("iss", "someone")), ErrInvalidCredentials},
		{"wrong audience", signToken(t, jwt.SigningMethodHS256, testKey, with("aud", "other")), ErrInvalidCredentials},
		{"wrong key", signToken(t, jwt.SigningMethodHS256, []byte("another-key-another-key-another!!"), valid()), ErrInvalidCredentials},
		{"alg none", signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid()), ErrInvalidCredentials},
		{"garbage", "not.a.jwt", ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := a.Authenticate(context.Background(), bearer(tt.token))
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if tt.wantErr == nil {
				if !result.Authenticated {
					t.Fatalf("Authenticated = false: %v", result.Error)
				}
				return
			}
			if result.Authenticated {
				t.Fatal("Authenticated = true, want failure")
			}
			if !errors.Is(result.Error, tt.wantErr) {
				t.Errorf("Error = %v, want %v", result.Error, tt.wantErr)
			}
		})
	}
}

func TestJWTAuthenticator_Identity(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{}, NewStaticKeyProvider(testKey))
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	token := signToken(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{
		"sub":   "oncall",
		"exp":   exp.Unix(),
		"roles": "admin reader",
	})
	result, err := a.Authenticate(context.Background(), bearer(token))
	if err != nil || !result.Authenticated {
		t.Fatalf("Authenticate() = %+v, %v", result, err)
	}

	id := result.Identity
	if id.Principal != "oncall" {
		t.Errorf("Principal = %q", id.Principal)
	}
	if !id.HasRole("admin") || !id.HasRole("reader") {
		t.Errorf("Roles = %v", id.Roles)
	}
	if !id.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", id.ExpiresAt, exp)
	}
	if id.Method != AuthMethodJWT || result.Method != "jwt" {
		t.Errorf("Method = %v / %v", id.Method, result.Method)
	}
}

func TestJWTAuthenticator_MissingToken(t *testing.T) {
	a := NewJWTAuthenticator(JWTConfig{}, NewStaticKeyProvider(testKey))

	for _, header := range []string{"", "Bearer ", "Basic abc"} {
		h := http.Header{}
		h.Set("Authorization", header)
		result, err := a.Authenticate(context.Background(), &AuthRequest{Headers: h})
		if err != nil {
			t.Fatalf("Authenticate(%q) error = %v", header, err)
		}
		if !errors.Is(result.Error, ErrMissingCredentials) {
			t.Errorf("Authenticate(%q).Error = %v", header, result.Error)
		}
	}
}

type failingKeys struct{ err error }

func (f failingKeys) GetKey(context.Context, string) ([]byte, error) { return nil, f.err }

func TestJWTAuthenticator_KeyErrors(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{"sub": "x"})

	a := NewJWTAuthenticator(JWTConfig{}, NewStaticKeyProvider(nil))
	result, err := a.Authenticate(context.Background(), bearer(token))
	if err != nil || result.Authenticated {
		t.Fatalf("missing key should be an auth failure, got %+v, %v", result, err)
	}

	backendErr := errors.New("key store unavailable")
	a = NewJWTAuthenticator(JWTConfig{}, failingKeys{err: backendErr})
	if _, err := a.Authenticate(context.Background(), bearer(token)); !errors.Is(err, backendErr) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
