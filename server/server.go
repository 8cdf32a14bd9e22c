package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/jonwraymond/jsapisign/auth"
	"github.com/jonwraymond/jsapisign/health"
	"github.com/jonwraymond/jsapisign/jssdk"
	"github.com/jonwraymond/jsapisign/observe"
)

const (
	defaultAllowOrigin       = "*"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownTimeout   = 15 * time.Second
)

// Signer signs a percent-encoded page URL.
// *jssdk.Signer satisfies it.
type Signer interface {
	Sign(ctx context.Context, encodedURL string) (*jssdk.Signature, error)
}

// Invalidator drops cached credentials.
// *jssdk.TicketProvider satisfies it.
type Invalidator interface {
	Invalidate()
}

// Config configures the HTTP surface.
type Config struct {
	// AllowOrigin is sent as Access-Control-Allow-Origin on /sign.
	// Default: "*"
	AllowOrigin string

	// Health backs the probe endpoints. Nil omits them.
	Health *health.Aggregator

	// Metrics serves /metrics. Nil omits the route.
	Metrics http.Handler

	// Admin authenticates the admin endpoints. Nil omits them.
	Admin auth.Authenticator

	// AdminRole is required of admin identities when non-empty.
	AdminRole string

	// Invalidator is called by POST /admin/credentials/invalidate.
	Invalidator Invalidator

	Logger observe.Logger

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown in Serve.
	// Default: 15 seconds.
	ShutdownTimeout time.Duration
}

// Server routes HTTP requests to the signer.
type Server struct {
	config Config
	signer Signer
	logger observe.Logger
	router *httprouter.Router
}

// New creates a Server for signer.
func New(signer Signer, config Config) *Server {
	if config.AllowOrigin == "" {
		config.AllowOrigin = defaultAllowOrigin
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaultShutdownTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = observe.NoopLogger()
	}

	s := &Server{
		config: config,
		signer: signer,
		logger: logger,
		router: httprouter.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandlerFunc(http.MethodGet, "/sign", s.handleSign)

	if s.config.Health != nil {
		health.RegisterHandlers(s.router, s.config.Health)
	}
	if s.config.Metrics != nil {
		s.router.Handler(http.MethodGet, "/metrics", s.config.Metrics)
	}
	if s.config.Admin != nil && s.config.Invalidator != nil {
		requireAdmin := auth.RequireBearer(s.config.Admin, s.config.AdminRole, s.logger)
		s.router.Handler(http.MethodPost, "/admin/credentials/invalidate", requireAdmin(http.HandlerFunc(s.handleInvalidate)))
	}

	s.router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		s.logger.Error(r.Context(), "handler panic", observe.F("path", r.URL.Path), observe.F("panic", v))
		writeError(w, errors.New("internal server error"))
	}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return logRequests(s.logger, s.router)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "serving", observe.F("address", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", s.config.AllowOrigin)

	raw, ok := rawQueryValue(r.URL.RawQuery, "url")
	if !ok {
		writeError(w, jssdk.ErrMissingURL)
		return
	}

	sig, err := s.signer.Sign(r.Context(), lenientUnescape(raw))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sig)
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	s.config.Invalidator.Invalidate()
	s.logger.Info(r.Context(), "credentials invalidated", observe.F("principal", auth.PrincipalFromContext(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
