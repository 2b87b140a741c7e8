package observe

import (
	"context"
	"errors"
	"sync"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jonwraymond/breedfetch/breed"
)

// captureLogger records log calls for assertions.
type captureLogger struct {
	mu      sync.Mutex
	entries []capturedEntry
}

type capturedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func (l *captureLogger) record(level, msg string, fields []Field) {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, capturedEntry{level: level, msg: msg, fields: m})
}

func (l *captureLogger) Info(_ context.Context, msg string, fields ...Field) {
	l.record("info", msg, fields)
}
func (l *captureLogger) Warn(_ context.Context, msg string, fields ...Field) {
	l.record("warn", msg, fields)
}
func (l *captureLogger) Error(_ context.Context, msg string, fields ...Field) {
	l.record("error", msg, fields)
}
func (l *captureLogger) Debug(_ context.Context, msg string, fields ...Field) {
	l.record("debug", msg, fields)
}
func (l *captureLogger) WithFetcher(FetcherMeta) Logger { return l }

func (l *captureLogger) last(t *testing.T) capturedEntry {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		t.Fatal("no log entries")
	}
	return l.entries[len(l.entries)-1]
}

func staticDelegate() breed.Fetcher {
	return breed.NewStaticFetcher(map[string][]string{
		"hound": {"afghan", "basset"},
	})
}

// TestMiddleware_SuccessPath verifies a successful lookup records telemetry.
func TestMiddleware_SuccessPath(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	reader, mp := newTestMeter(t)
	metrics, _ := newMetrics(mp.Meter("test"))
	logger := &captureLogger{}

	mw := NewMiddleware(NewTracer(tp.Tracer("test")), metrics, logger)
	f, err := mw.Wrap(staticDelegate(), FetcherMeta{Name: "static"})
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	subs, err := f.SubBreeds(context.Background(), breed.NameOf("Hound"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(subs) != 2 {
		t.Errorf("expected 2 sub-breeds, got %v", subs)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "breed.lookup.static" {
		t.Errorf("span name = %q", spans[0].Name())
	}

	if findMetric(collect(t, reader), "breed.lookup.total") == nil {
		t.Error("breed.lookup.total metric not found")
	}

	entry := logger.last(t)
	if entry.level != "debug" {
		t.Errorf("level = %q, want debug", entry.level)
	}
	if entry.fields["breed"] != "Hound" {
		t.Errorf("breed field = %v", entry.fields["breed"])
	}
	if entry.fields["sub_breeds"] != 2 {
		t.Errorf("sub_breeds field = %v", entry.fields["sub_breeds"])
	}
	if _, ok := entry.fields["duration_ms"]; !ok {
		t.Error("missing duration_ms field")
	}
}

// TestMiddleware_NotFoundPassesThrough verifies NotFound keeps its identity.
func TestMiddleware_NotFoundPassesThrough(t *testing.T) {
	logger := &captureLogger{}
	mw := NewMiddleware(nil, nil, logger)
	f, _ := mw.Wrap(staticDelegate(), FetcherMeta{Name: "static"})

	name := breed.NameOf("labrador")
	_, err := f.SubBreeds(context.Background(), name)
	if !breed.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	got, ok := breed.NotFoundName(err)
	if !ok || got != name {
		t.Errorf("NotFoundName = %v, %v", got, ok)
	}

	if entry := logger.last(t); entry.level != "info" {
		t.Errorf("level = %q, want info", entry.level)
	}
}

// TestMiddleware_ForeignErrorUnchanged verifies other errors are returned as is.
func TestMiddleware_ForeignErrorUnchanged(t *testing.T) {
	testErr := errors.New("catalog exploded")
	inner := breed.FetcherFunc(func(context.Context, breed.Name) ([]string, error) {
		return nil, testErr
	})

	logger := &captureLogger{}
	mw := NewMiddleware(nil, nil, logger)
	f, _ := mw.Wrap(inner, FetcherMeta{Name: "broken"})

	_, err := f.SubBreeds(context.Background(), breed.NameOf("hound"))
	if err != testErr {
		t.Errorf("expected error %v, got %v", testErr, err)
	}

	entry := logger.last(t)
	if entry.level != "error" {
		t.Errorf("level = %q, want error", entry.level)
	}
	if entry.fields["error"] != "catalog exploded" {
		t.Errorf("error field = %v", entry.fields["error"])
	}
}

// TestMiddleware_PropagatesContext verifies the context reaches the delegate.
func TestMiddleware_PropagatesContext(t *testing.T) {
	type ctxKey string
	key := ctxKey("test")

	var received any
	inner := breed.FetcherFunc(func(ctx context.Context, _ breed.Name) ([]string, error) {
		received = ctx.Value(key)
		return nil, nil
	})

	f, _ := NewMiddleware(nil, nil, nil).Wrap(inner, FetcherMeta{Name: "ctx"})
	ctx := context.WithValue(context.Background(), key, "value")
	if _, err := f.SubBreeds(ctx, breed.NameOf("hound")); err != nil {
		t.Fatalf("SubBreeds() error = %v", err)
	}
	if received != "value" {
		t.Errorf("expected context value %q, got %v", "value", received)
	}
}

// TestMiddleware_WrapValidation verifies Wrap rejects bad arguments.
func TestMiddleware_WrapValidation(t *testing.T) {
	mw := NewMiddleware(nil, nil, nil)

	if _, err := mw.Wrap(nil, FetcherMeta{Name: "x"}); !errors.Is(err, ErrNilFetcher) {
		t.Errorf("expected ErrNilFetcher, got %v", err)
	}
	if _, err := mw.Wrap(staticDelegate(), FetcherMeta{}); !errors.Is(err, ErrMissingFetcherName) {
		t.Errorf("expected ErrMissingFetcherName, got %v", err)
	}
}

// TestMiddleware_AroundCache verifies the middleware composes with the cache.
func TestMiddleware_AroundCache(t *testing.T) {
	reader, mp := newTestMeter(t)
	metrics, _ := newMetrics(mp.Meter("test"))
	mw := NewMiddleware(nil, metrics, nil)

	cache := breed.NewCachingFetcher(staticDelegate())
	f, _ := mw.Wrap(cache, FetcherMeta{Name: "cache"})

	for range 3 {
		if _, err := f.SubBreeds(context.Background(), breed.NameOf("hound")); err != nil {
			t.Fatalf("SubBreeds() error = %v", err)
		}
	}

	if cache.Calls() != 1 {
		t.Errorf("delegate calls = %d, want 1", cache.Calls())
	}
	if got := sumValue(t, findMetric(collect(t, reader), "breed.lookup.total")); got != 3 {
		t.Errorf("lookups = %d, want 3", got)
	}
}

// TestMiddlewareFromObserver verifies construction from an Observer.
func TestMiddlewareFromObserver(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("expected ErrNilObserver, got %v", err)
	}

	obs, err := NewObserver(context.Background(), Config{ServiceName: "test"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver() error = %v", err)
	}
	if mw == nil {
		t.Fatal("expected non-nil middleware")
	}
}
