package observe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Config selects the telemetry backends of an Observer.
type Config struct {
	ServiceName string
	Version     string
	Tracing     TracingConfig
	Metrics     MetricsConfig
	Logging     LoggingConfig

	// Output receives the stdout exporters. Nil means os.Stdout. Command
	// line tools that print results on stdout point this at os.Stderr.
	Output io.Writer
}

// TracingConfig selects the span exporter and the sampling ratio.
type TracingConfig struct {
	Enabled   bool
	Exporter  string  // otlp|jaeger|stdout|none
	SamplePct float64 // 0.0-1.0
}

// MetricsConfig selects the metric reader.
type MetricsConfig struct {
	Enabled  bool
	Exporter string // otlp|prometheus|stdout|none

	// Registerer receives the prometheus collector when Exporter is
	// "prometheus". Nil means the prometheus default registerer.
	Registerer promclient.Registerer
}

// LoggingConfig selects the logger handed out by Observer.Logger.
type LoggingConfig struct {
	Enabled bool
	Level   string // debug|info|warn|error

	// Logger replaces the built-in JSON logger when set.
	Logger Logger
}

// Validate reports the first invalid setting. Settings of disabled
// subsystems are not checked.
func (c *Config) Validate() error {
	switch {
	case c.ServiceName == "":
		return ErrMissingServiceName
	case c.Tracing.Enabled && !slices.Contains(ValidTracingExporters, c.Tracing.Exporter):
		return fmt.Errorf("%w: %q", ErrInvalidTracingExporter, c.Tracing.Exporter)
	case c.Tracing.Enabled && (c.Tracing.SamplePct < 0 || c.Tracing.SamplePct > 1.0):
		return fmt.Errorf("%w: got %f", ErrInvalidSamplePct, c.Tracing.SamplePct)
	case c.Metrics.Enabled && !slices.Contains(ValidMetricsExporters, c.Metrics.Exporter):
		return fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.Metrics.Exporter)
	case c.Logging.Enabled && !slices.Contains(ValidLogLevels, c.Logging.Level):
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	return nil
}

// Observer hands out the tracer, meter and logger used by the lookup
// middleware and the cache gauges. It is safe for concurrent use.
type Observer interface {
	Tracer() trace.Tracer
	Meter() metric.Meter
	Logger() Logger

	// Shutdown flushes and stops the SDK providers. It honors ctx and
	// joins the errors of every provider.
	Shutdown(ctx context.Context) error
}

type observer struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger Logger

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewObserver validates cfg and builds the providers of the enabled
// subsystems. Disabled subsystems get no-op implementations.
func NewObserver(ctx context.Context, cfg Config) (Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	obs := &observer{
		tracer: tracenoop.NewTracerProvider().Tracer("noop"),
		meter:  noop.NewMeterProvider().Meter("noop"),
		logger: NopLogger(),
	}

	if cfg.Tracing.Enabled {
		if obs.tp, err = newTracerProvider(ctx, cfg, res); err != nil {
			return nil, fmt.Errorf("failed to setup tracing: %w", err)
		}
		obs.tracer = obs.tp.Tracer(cfg.ServiceName)
	}

	if cfg.Metrics.Enabled {
		if obs.mp, err = newMeterProvider(ctx, cfg, res); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to setup metrics: %w", err), obs.Shutdown(ctx))
		}
		obs.meter = obs.mp.Meter(cfg.ServiceName)
	}

	if cfg.Logging.Enabled {
		obs.logger = cfg.Logging.Logger
		if obs.logger == nil {
			obs.logger = NewLogger(cfg.Logging.Level)
		}
	}

	return obs, nil
}

func (o *observer) Tracer() trace.Tracer { return o.tracer }
func (o *observer) Meter() metric.Meter  { return o.meter }
func (o *observer) Logger() Logger       { return o.logger }

func (o *observer) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tp != nil {
		if err := o.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.mp != nil {
		if err := o.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
