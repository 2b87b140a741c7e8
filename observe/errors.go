package observe

import "errors"

// Errors returned by Config.Validate. They are wrapped with the offending
// value where there is one.
var (
	ErrMissingServiceName     = errors.New("observe: service name is required")
	ErrInvalidSamplePct       = errors.New("observe: sample percentage must be between 0.0 and 1.0")
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")
	ErrInvalidLogLevel        = errors.New("observe: invalid log level")
)

// Errors returned when wiring the middleware and the cache gauges.
var (
	ErrNilObserver        = errors.New("observe: observer is nil")
	ErrNilFetcher         = errors.New("observe: fetcher is nil")
	ErrMissingFetcherName = errors.New("observe: fetcher name is required")
)

// Accepted names for Config. The empty string selects nothing and is
// treated like "none".
var (
	ValidTracingExporters = []string{"otlp", "jaeger", "stdout", "none", ""}
	ValidMetricsExporters = []string{"otlp", "prometheus", "stdout", "none", ""}
	ValidLogLevels        = []string{"debug", "info", "warn", "error", ""}
)
