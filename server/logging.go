package server

import (
	"net/http"
	"time"

	"github.com/jonwraymond/jsapisign/observe"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequests logs one line per request. Server errors log at Error,
// probe and metrics traffic at Debug.
func logRequests(logger observe.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []observe.Field{
			observe.F("method", r.Method),
			observe.F("path", r.URL.Path),
			observe.F("status", rec.status),
			observe.F("duration_ms", float64(time.Since(start).Microseconds())/1000),
		}
		switch {
		case rec.status >= http.StatusInternalServerError:
			logger.Error(r.Context(), "request failed", fields...)
		case isProbe(r.URL.Path):
			logger.Debug(r.Context(), "request", fields...)
		default:
			logger.Info(r.Context(), "request", fields...)
		}
	})
}

func isProbe(path string) bool {
	switch path {
	case "/healthz", "/readyz", "/metrics":
		return true
	}
	return false
}
