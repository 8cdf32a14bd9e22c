// Package config holds the service configuration.
//
// Fields carry kong tags so the command line and environment map straight
// onto Config. Credential fields may hold ${VAR} references or
// secretref:<provider>:<ref> values; Resolve replaces them.
package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/jonwraymond/jsapisign/cache"
	"github.com/jonwraymond/jsapisign/observe"
	"github.com/jonwraymond/jsapisign/secret"
	"github.com/jonwraymond/jsapisign/wechat"
)

// ServiceName identifies the service in logs and telemetry.
const ServiceName = "jsapisign"

// Configuration errors.
var (
	ErrMissingAppID     = errors.New("config: app id is required")
	ErrMissingAppSecret = errors.New("config: app secret is required")
	ErrInvalidPort      = errors.New("config: port must be between 1 and 65535")
	ErrInvalidDuration  = errors.New("config: duration must not be negative")
)

// Config is the complete service configuration.
type Config struct {
	AppID     string `name:"app-id" env:"WECHAT_APPID" help:"Application identifier."`
	AppSecret string `name:"app-secret" env:"WECHAT_APPSECRET" help:"Application secret. Accepts environment references and secretref:<provider>:<ref> values."`

	// RequireCredentials fails startup when AppID or AppSecret is empty.
	// Without it the service starts and every signing request fails upstream.
	RequireCredentials bool `name:"require-credentials" env:"REQUIRE_CREDENTIALS" help:"Refuse to start without app id and secret."`

	Port        int    `name:"port" env:"PORT" default:"80" help:"HTTP listen port."`
	ListenHost  string `name:"listen-host" env:"LISTEN_HOST" help:"HTTP listen host; empty listens on all interfaces."`
	AllowOrigin string `name:"allow-origin" env:"ALLOW_ORIGIN" default:"*" help:"Access-Control-Allow-Origin for /sign."`

	UpstreamURL         string        `name:"upstream-url" env:"WECHAT_API_URL" default:"https://api.weixin.qq.com" help:"Credential API base URL."`
	UpstreamTimeout     time.Duration `name:"upstream-timeout" env:"UPSTREAM_TIMEOUT" default:"10s" help:"Timeout for each upstream call."`
	CircuitMaxFailures  int           `name:"circuit-max-failures" env:"CIRCUIT_MAX_FAILURES" default:"5" help:"Consecutive upstream outages before the circuit opens; 0 disables it."`
	CircuitResetTimeout time.Duration `name:"circuit-reset-timeout" env:"CIRCUIT_RESET_TIMEOUT" default:"30s" help:"How long the circuit stays open."`
	SafetyMargin        time.Duration `name:"safety-margin" env:"SAFETY_MARGIN" default:"300s" help:"Credentials expire this long before the upstream says."`

	AdminJWTKey string `name:"admin-jwt-key" env:"ADMIN_JWT_KEY" help:"HMAC key for admin bearer tokens; empty disables the admin endpoint."`
	AdminIssuer string `name:"admin-issuer" env:"ADMIN_JWT_ISSUER" help:"Required iss claim on admin tokens."`
	AdminRole   string `name:"admin-role" env:"ADMIN_ROLE" default:"admin" help:"Role required on admin tokens."`

	SecretDir string `name:"secret-dir" env:"SECRET_DIR" help:"Base directory for relative secretref:file references."`

	LogLevel         string  `name:"log-level" env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level."`
	TracingExporter  string  `name:"tracing-exporter" env:"TRACING_EXPORTER" default:"none" enum:"none,stdout,otlp" help:"Trace exporter."`
	TracingSamplePct float64 `name:"tracing-sample" env:"TRACING_SAMPLE" default:"1.0" help:"Trace sampling ratio between 0 and 1."`
	MetricsExporter  string  `name:"metrics-exporter" env:"METRICS_EXPORTER" default:"prometheus" enum:"none,stdout,otlp,prometheus" help:"Metrics exporter."`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:                80,
		AllowOrigin:         "*",
		UpstreamURL:         wechat.DefaultBaseURL,
		UpstreamTimeout:     10 * time.Second,
		CircuitMaxFailures:  5,
		CircuitResetTimeout: 30 * time.Second,
		SafetyMargin:        cache.DefaultSafetyMargin,
		AdminRole:           "admin",
		LogLevel:            "info",
		TracingExporter:     "none",
		TracingSamplePct:    1.0,
		MetricsExporter:     "prometheus",
	}
}

// Resolve expands environment references and secret refs in the
// credential fields, in place.
func (c *Config) Resolve(ctx context.Context) error {
	r, err := secret.NewResolverFromRegistry(secret.DefaultRegistry, true, []string{"env", "file"}, map[string]map[string]any{
		"file": {"dir": c.SecretDir},
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer func() { _ = r.Close() }()

	if err := r.ResolveFields(ctx, map[string]*string{
		"app-id":        &c.AppID,
		"app-secret":    &c.AppSecret,
		"admin-jwt-key": &c.AdminJWTKey,
	}); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks the configuration. Missing credentials are an error only
// when RequireCredentials is set.
func (c *Config) Validate() error {
	if c.RequireCredentials {
		if c.AppID == "" {
			return ErrMissingAppID
		}
		if c.AppSecret == "" {
			return ErrMissingAppSecret
		}
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	for name, d := range map[string]time.Duration{
		"upstream-timeout":      c.UpstreamTimeout,
		"circuit-reset-timeout": c.CircuitResetTimeout,
		"safety-margin":         c.SafetyMargin,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s=%s", ErrInvalidDuration, name, d)
		}
	}
	obs := c.Observe("")
	return obs.Validate()
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(c.Port))
}

// AdminEnabled reports whether the admin endpoint is served.
func (c *Config) AdminEnabled() bool {
	return c.AdminJWTKey != ""
}

// Observe returns the telemetry configuration.
func (c *Config) Observe(version string) observe.Config {
	return observe.Config{
		ServiceName: ServiceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   c.TracingExporter != "" && c.TracingExporter != "none",
			Exporter:  c.TracingExporter,
			SamplePct: c.TracingSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.MetricsExporter != "" && c.MetricsExporter != "none",
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
	}
}

// Policy returns the credential cache policy.
func (c *Config) Policy() cache.Policy {
	return cache.Policy{SafetyMargin: c.SafetyMargin}
}

// Guard returns the upstream resilience settings.
func (c *Config) Guard() wechat.GuardConfig {
	return wechat.GuardConfig{
		Timeout:      c.UpstreamTimeout,
		MaxFailures:  c.CircuitMaxFailures,
		ResetTimeout: c.CircuitResetTimeout,
	}
}
