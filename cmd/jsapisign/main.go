// Command jsapisign serves WeChat JS-SDK page signatures over HTTP.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/jsapisign/auth"
	"github.com/jonwraymond/jsapisign/cache"
	"github.com/jonwraymond/jsapisign/config"
	"github.com/jonwraymond/jsapisign/health"
	"github.com/jonwraymond/jsapisign/jssdk"
	"github.com/jonwraymond/jsapisign/observe"
	"github.com/jonwraymond/jsapisign/resilience"
	"github.com/jonwraymond/jsapisign/server"
	"github.com/jonwraymond/jsapisign/wechat"
)

var version = "dev"

const telemetryShutdownTimeout = 5 * time.Second

type CLI struct {
	config.Config `embed:""`

	Version kong.VersionFlag `help:"Print version and exit."`
}

func (cli *CLI) Run(ctx context.Context) error {
	cfg := cli.Config
	if err := cfg.Resolve(ctx); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obsCfg := cfg.Observe(version)
	obsCfg.Metrics.Registerer = registry
	obs, err := observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryShutdownTimeout)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()
	logger := obs.Logger()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return fmt.Errorf("failed to create middleware: %w", err)
	}
	cacheMetrics, err := observe.NewCacheMetrics(obs.Meter())
	if err != nil {
		return fmt.Errorf("failed to create cache metrics: %w", err)
	}

	guardCfg := cfg.Guard()
	guardCfg.OnStateChange = func(from, to resilience.State) {
		logger.Warn(ctx, "upstream circuit changed state", observe.F("from", from.String()), observe.F("to", to.String()))
	}
	guard := wechat.NewGuard(guardCfg)

	client := wechat.NewClient(wechat.Config{
		BaseURL:   cfg.UpstreamURL,
		AppID:     cfg.AppID,
		AppSecret: cfg.AppSecret,
		Timeout:   cfg.UpstreamTimeout,
		Executor:  guard,
	})

	tokenCache := cache.NewCredentialCache(wechat.OpAccessToken, cfg.Policy(), cache.WithMetrics(cacheMetrics))
	ticketCache := cache.NewCredentialCache(wechat.OpJSAPITicket, cfg.Policy(), cache.WithMetrics(cacheMetrics))
	tokens := jssdk.NewTokenProvider(client, tokenCache, mw)
	tickets := jssdk.NewTicketProvider(tokens, client, ticketCache, mw)
	signer := jssdk.NewSigner(cfg.AppID, tickets, jssdk.WithMiddleware(mw))

	agg := health.NewAggregator(health.AggregatorConfig{Logger: logger})
	agg.Register(tokenCache.Name(), health.NewCredentialChecker(tokenCache))
	agg.Register(ticketCache.Name(), health.NewCredentialChecker(ticketCache))
	if cb := guard.CircuitBreaker(); cb != nil {
		agg.Register("upstream", health.NewCircuitChecker("upstream", cb))
	}

	srvCfg := server.Config{
		AllowOrigin: cfg.AllowOrigin,
		Health:      agg,
		Logger:      logger,
	}
	if cfg.MetricsExporter == "prometheus" {
		srvCfg.Metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	}
	if cfg.AdminEnabled() {
		srvCfg.Admin = auth.NewJWTAuthenticator(auth.JWTConfig{
			Issuer:        cfg.AdminIssuer,
			RequireExpiry: true,
			Leeway:        30 * time.Second,
		}, auth.NewStaticKeyProvider([]byte(cfg.AdminJWTKey)))
		srvCfg.AdminRole = cfg.AdminRole
		srvCfg.Invalidator = tickets
	}

	if cfg.AppID == "" || cfg.AppSecret == "" {
		logger.Warn(ctx, "app id or secret not set, signing requests will fail upstream")
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	logger.Info(ctx, "starting",
		observe.F("version", version),
		observe.F("app_id", cfg.AppID),
		observe.F("upstream", cfg.UpstreamURL),
		observe.F("admin", cfg.AdminEnabled()),
	)
	return server.New(signer, srvCfg).Serve(ctx, ln)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli := CLI{Config: config.Default()}
	cliCtx := kong.Parse(&cli,
		kong.Name("jsapisign"),
		kong.Description("Serve WeChat JS-SDK page signatures."),
		kong.Vars{"version": version},
	)
	cliCtx.BindTo(ctx, (*context.Context)(nil))

	if err := cliCtx.Run(); err != nil {
		observe.NewLoggerWithWriter("error", os.Stderr).Error(ctx, "jsapisign failed", observe.F("error", err))
		cancel()
		os.Exit(1)
	}
}
