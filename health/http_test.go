package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func newRouter(checkers map[string]Result) *httprouter.Router {
	agg := NewAggregator()
	for name, r := range checkers {
		agg.Register(name, staticChecker(name, r))
	}
	router := httprouter.New()
	RegisterHandlers(router, agg)
	return router
}

func serve(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLivenessHandler(t *testing.T) {
	rec := serve(newRouter(nil), "/healthz")

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Body = %v, want 'OK'", rec.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		code   int
		body   string
	}{
		{"healthy", Healthy("ok"), http.StatusOK, "OK"},
		{"degraded", Degraded("not fetched yet"), http.StatusOK, "DEGRADED"},
		{"unhealthy", Unhealthy("circuit open", nil), http.StatusServiceUnavailable, "UNHEALTHY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newRouter(map[string]Result{"c": tt.result}), "/readyz")
			if rec.Code != tt.code {
				t.Errorf("Status = %d, want %d", rec.Code, tt.code)
			}
			if rec.Body.String() != tt.body {
				t.Errorf("Body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestDetailedHandler(t *testing.T) {
	router := newRouter(map[string]Result{
		"access_token": Healthy("access_token valid").WithDetails(map[string]any{"expires_in": "1h0m0s"}),
		"upstream":     Unhealthy("upstream circuit open", context.DeadlineExceeded),
	})

	rec := serve(router, "/health")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "unhealthy" {
		t.Errorf("Status = %q, want unhealthy", resp.Status)
	}
	if resp.Checks["access_token"].Details["expires_in"] != "1h0m0s" {
		t.Errorf("details = %v", resp.Checks["access_token"].Details)
	}
	if resp.Checks["upstream"].Error != context.DeadlineExceeded.Error() {
		t.Errorf("error = %q", resp.Checks["upstream"].Error)
	}
}

func TestCheckHandler(t *testing.T) {
	router := newRouter(map[string]Result{"jsapi_ticket": Degraded("jsapi_ticket expired")})

	rec := serve(router, "/health/jsapi_ticket")
	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", rec.Code)
	}
	var resp CheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" || resp.Message != "jsapi_ticket expired" {
		t.Errorf("resp = %+v", resp)
	}

	rec = serve(router, "/health/unknown")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown check Status = %d, want 404", rec.Code)
	}
}
