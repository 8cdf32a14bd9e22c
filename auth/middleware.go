package auth

import (
	"encoding/json"
	"net/http"

	"github.com/jonwraymond/jsapisign/observe"
)

// RequireBearer returns middleware admitting only requests that authn
// accepts. When role is non-empty the identity must also hold it.
// The authenticated identity is stored in the request context.
func RequireBearer(authn Authenticator, role string, logger observe.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = observe.NoopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			req := &AuthRequest{Headers: r.Header}

			if !authn.Supports(ctx, req) {
				deny(w, http.StatusUnauthorized, ErrMissingCredentials)
				return
			}

			result, err := authn.Authenticate(ctx, req)
			if err != nil {
				logger.Error(ctx, "authentication error", observe.F("error", err), observe.F("path", r.URL.Path))
				deny(w, http.StatusInternalServerError, err)
				return
			}
			if !result.Authenticated {
				logger.Warn(ctx, "authentication rejected", observe.F("error", result.Error), observe.F("path", r.URL.Path))
				deny(w, http.StatusUnauthorized, result.Error)
				return
			}
			if role != "" && !result.Identity.HasRole(role) {
				logger.Warn(ctx, "authorization rejected",
					observe.F("principal", result.Identity.Principal),
					observe.F("role", role),
					observe.F("path", r.URL.Path),
				)
				deny(w, http.StatusForbidden, ErrForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, result.Identity)))
		})
	}
}

func deny(w http.ResponseWriter, code int, err error) {
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="jsapisign"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
