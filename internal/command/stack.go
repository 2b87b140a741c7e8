package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/breedfetch/breed"
	"github.com/jonwraymond/breedfetch/dogapi"
	"github.com/jonwraymond/breedfetch/health"
	"github.com/jonwraymond/breedfetch/internal/config"
	mylog "github.com/jonwraymond/breedfetch/internal/log"
	"github.com/jonwraymond/breedfetch/observe"
	"github.com/jonwraymond/breedfetch/resilience"
)

// stack is the assembled lookup pipeline:
// instrumented cache -> CachingFetcher -> instrumented client -> dogapi.
type stack struct {
	cfg      *config.Config
	logger   observe.Logger
	observer observe.Observer
	registry *prometheus.Registry
	executor *resilience.Executor
	client   *dogapi.Client
	cache    *breed.CachingFetcher
	fetcher  breed.Fetcher
	health   *health.Aggregator
	gauges   metric.Registration
}

var (
	catalogMeta = observe.FetcherMeta{Name: "dogapi"}
	cacheMeta   = observe.FetcherMeta{Name: "cache"}
)

func newStack(ctx context.Context, cfg *config.Config) (*stack, error) {
	st := &stack{cfg: cfg, logger: mylog.NewLogger(nil)}

	obsCfg := cfg.ObserveConfig()
	obsCfg.Version = Version
	obsCfg.Logging.Logger = st.logger
	obsCfg.Output = os.Stderr
	if obsCfg.Metrics.Enabled && obsCfg.Metrics.Exporter == "prometheus" {
		st.registry = prometheus.NewRegistry()
		obsCfg.Metrics.Registerer = st.registry
	}

	obs, err := observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return nil, fmt.Errorf("observability: %w", err)
	}
	st.observer = obs

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, errors.Join(err, st.Close(ctx))
	}

	rc := cfg.ResilienceConfig()
	rc.OnStateChange = func(from, to resilience.State) {
		log.WithFields(log.Fields{"from": from, "to": to}).Warn("catalog circuit changed state")
	}
	st.executor = resilience.New(rc)

	meta := catalogMeta
	meta.Source = cfg.Catalog.BaseURL
	st.client = dogapi.New(dogapi.Config{
		BaseURL:         cfg.Catalog.BaseURL,
		Token:           cfg.Catalog.Token,
		DisableFallback: cfg.Catalog.DisableFallback,
		Executor:        st.executor,
		Logger:          st.logger.WithFetcher(meta),
	})

	remote, err := mw.Wrap(st.client, meta)
	if err != nil {
		return nil, errors.Join(err, st.Close(ctx))
	}

	var opts []breed.Option
	if cfg.Cache.SingleFlight {
		opts = append(opts, breed.WithSingleFlight())
	}
	st.cache = breed.NewCachingFetcher(remote, opts...)

	if st.fetcher, err = mw.Wrap(st.cache, cacheMeta); err != nil {
		return nil, errors.Join(err, st.Close(ctx))
	}
	if st.gauges, err = observe.RegisterCacheGauges(obs.Meter(), cacheMeta, st.cache); err != nil {
		return nil, errors.Join(err, st.Close(ctx))
	}

	st.health = health.NewAggregator(health.AggregatorConfig{Timeout: 5 * time.Second})
	st.health.Register("catalog", health.NewCatalogChecker(st.client, health.CatalogCheckerConfig{
		FallbackAvailable: !cfg.Catalog.DisableFallback,
	}))
	if cb := st.executor.CircuitBreaker(); cb != nil {
		checker := health.NewCircuitChecker(cb)
		st.health.Register(checker.Name(), checker)
	}
	st.health.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
	st.health.Register("cache", health.NewCacheChecker(st.cache))

	return st, nil
}

// Close releases telemetry resources.
func (s *stack) Close(ctx context.Context) error {
	var errs []error
	if s.gauges != nil {
		if err := s.gauges.Unregister(); err != nil {
			errs = append(errs, fmt.Errorf("unregister cache gauges: %w", err))
		}
	}
	if s.observer != nil {
		if err := s.observer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
