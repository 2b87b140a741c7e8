package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/breedfetch/breed"
)

// Tracer wraps OpenTelemetry tracing with lookup-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a sub-breed lookup.
	StartSpan(ctx context.Context, meta FetcherMeta, name breed.Name) (context.Context, trace.Span)

	// EndSpan ends the span, recording the result size or the error.
	EndSpan(span trace.Span, subBreeds int, err error)
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// StartSpan starts a new span with fetcher metadata and the breed as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta FetcherMeta, name breed.Name) (context.Context, trace.Span) {
	attrs := meta.attributes()
	attrs = append(attrs, attribute.Bool("breed.error", false))
	if meta.Version != "" {
		attrs = append(attrs, attribute.String("fetcher.version", meta.Version))
	}
	if v, ok := name.Value(); ok {
		attrs = append(attrs, attribute.String("breed.name", v))
	} else {
		attrs = append(attrs, attribute.Bool("breed.absent", true))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, subBreeds int, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(
			attribute.Bool("breed.error", true),
			attribute.Bool("breed.not_found", breed.IsNotFound(err)),
		)
		span.RecordError(err)
	} else {
		span.SetAttributes(attribute.Int("breed.sub_breeds", subBreeds))
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta FetcherMeta, _ breed.Name) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ int, _ error) {
	span.End()
}
