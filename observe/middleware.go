package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/breedfetch/breed"
)

// Middleware wraps breed fetchers with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap returns a fetcher that is as safe for concurrent use
//     as the one it wraps.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped fetcher are recorded and returned
//     unchanged.
//   - Ownership: Results are passed through without copying.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware. Nil components are replaced by
// no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap returns a fetcher that instruments every lookup made through next.
func (m *Middleware) Wrap(next breed.Fetcher, meta FetcherMeta) (breed.Fetcher, error) {
	if next == nil {
		return nil, ErrNilFetcher
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	logger := m.logger.WithFetcher(meta)

	return breed.FetcherFunc(func(ctx context.Context, name breed.Name) ([]string, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta, name)
		start := time.Now()

		subs, err := next.SubBreeds(ctx, name)

		duration := time.Since(start)
		m.tracer.EndSpan(span, len(subs), err)
		m.metrics.RecordLookup(ctx, meta, duration, err)

		fields := []Field{
			{Key: "breed", Value: name.String()},
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
		}

		switch {
		case err == nil:
			fields = append(fields, Field{Key: "sub_breeds", Value: len(subs)})
			logger.Debug(ctx, "lookup completed", fields...)
		case breed.IsNotFound(err):
			logger.Info(ctx, "breed not found", fields...)
		default:
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			logger.Error(ctx, "lookup failed", fields...)
		}

		return subs, err
	}), nil
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
