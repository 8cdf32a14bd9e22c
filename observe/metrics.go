package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/jsapisign/cache"
)

// Metrics records execution metrics for operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordOperation records an operation with duration and error status.
	RecordOperation(ctx context.Context, op Operation, duration time.Duration, err error)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates operation metrics on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"jsapisign.operation.total",
		metric.WithDescription("Total number of operations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"jsapisign.operation.errors",
		metric.WithDescription("Total number of failed operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"jsapisign.operation.duration_ms",
		metric.WithDescription("Operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordOperation(ctx context.Context, op Operation, duration time.Duration, err error) {
	opt := metric.WithAttributes(op.attributes()...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

type noopMetrics struct{}

func (noopMetrics) RecordOperation(context.Context, Operation, time.Duration, error) {}

// CacheMetrics implements cache.Metrics on an OpenTelemetry meter.
// Every instrument carries a "credential" attribute holding the cache name.
type CacheMetrics struct {
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	refreshes     metric.Int64Counter
	refreshErrors metric.Int64Counter
	refreshHist   metric.Float64Histogram
}

// NewCacheMetrics creates the credential cache instruments.
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	hits, err := meter.Int64Counter(
		"jsapisign.cache.hits",
		metric.WithDescription("Credential lookups served from cache"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"jsapisign.cache.misses",
		metric.WithDescription("Credential lookups that required a refresh"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	refreshes, err := meter.Int64Counter(
		"jsapisign.cache.refreshes",
		metric.WithDescription("Upstream credential refreshes"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	refreshErrors, err := meter.Int64Counter(
		"jsapisign.cache.refresh_errors",
		metric.WithDescription("Failed upstream credential refreshes"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	refreshHist, err := meter.Float64Histogram(
		"jsapisign.cache.refresh_duration_ms",
		metric.WithDescription("Upstream credential refresh duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &CacheMetrics{
		hits:          hits,
		misses:        misses,
		refreshes:     refreshes,
		refreshErrors: refreshErrors,
		refreshHist:   refreshHist,
	}, nil
}

func credentialAttr(name string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("credential", name))
}

// Hit implements cache.Metrics.
func (m *CacheMetrics) Hit(ctx context.Context, name string) {
	m.hits.Add(ctx, 1, credentialAttr(name))
}

// Miss implements cache.Metrics.
func (m *CacheMetrics) Miss(ctx context.Context, name string) {
	m.misses.Add(ctx, 1, credentialAttr(name))
}

// Refresh implements cache.Metrics.
func (m *CacheMetrics) Refresh(ctx context.Context, name string, duration time.Duration, err error) {
	opt := credentialAttr(name)
	m.refreshes.Add(ctx, 1, opt)
	if err != nil {
		m.refreshErrors.Add(ctx, 1, opt)
	}
	m.refreshHist.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

var _ cache.Metrics = (*CacheMetrics)(nil)
