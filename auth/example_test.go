package auth_test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/jsapisign/auth"
)

func ExampleNewJWTAuthenticator() {
	key := []byte("shared-admin-key-shared-admin-key")
	authenticator := auth.NewJWTAuthenticator(auth.JWTConfig{
		Issuer:        "ops",
		RequireExpiry: true,
	}, auth.NewStaticKeyProvider(key))

	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "oncall",
		"iss":   "ops",
		"exp":   time.Now().Add(time.Minute).Unix(),
		"roles": []string{"admin"},
	}).SignedString(key)

	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	result, err := authenticator.Authenticate(context.Background(), &auth.AuthRequest{Headers: h})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("Authenticated:", result.Authenticated)
	fmt.Println("Principal:", result.Identity.Principal)
	fmt.Println("Admin:", result.Identity.HasRole("admin"))
	// Output:
	// Authenticated: true
	// Principal: oncall
	// Admin: true
}

func ExampleWithIdentity() {
	ctx := auth.WithIdentity(context.Background(), &auth.Identity{Principal: "oncall"})
	fmt.Println(auth.PrincipalFromContext(ctx))
	// Output:
	// oncall
}
