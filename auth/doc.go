// Package auth authenticates operator requests to the admin endpoints.
//
// Operators present an HS256-signed JWT as a bearer token. JWTAuthenticator
// validates it against a shared key and turns its claims into an Identity;
// RequireBearer wraps an http.Handler, rejecting unauthenticated requests
// with 401 and requests lacking a required role with 403.
package auth
