package observe

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/breedfetch/breed"
)

// Metrics records lookup metrics for fetchers.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records one lookup with its duration and error status.
	RecordLookup(ctx context.Context, meta FetcherMeta, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// lookupBuckets spans cache hits (well under a millisecond) up to catalog
// calls that run into the client timeout.
var lookupBuckets = []float64{0.05, 0.25, 1, 5, 25, 100, 250, 1000, 5000, 10000}

// NewMetrics creates the lookup instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"breed.lookup.total",
		metric.WithDescription("Total number of sub-breed lookups"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"breed.lookup.errors",
		metric.WithDescription("Total number of failed sub-breed lookups"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"breed.lookup.duration_ms",
		metric.WithDescription("Sub-breed lookup duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(lookupBuckets...),
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

// RecordLookup records metrics for one lookup.
func (m *metricsImpl) RecordLookup(ctx context.Context, meta FetcherMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.totalCount.Add(ctx, 1, opt)

	if err != nil {
		attrs := append(meta.attributes(), attribute.String("error.kind", errorKind(err)))
		m.errorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

// errorKind buckets lookup errors for the error.kind attribute.
func errorKind(err error) string {
	switch {
	case breed.IsNotFound(err):
		return "not_found"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline"
	default:
		return "other"
	}
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordLookup(context.Context, FetcherMeta, time.Duration, error) {}
