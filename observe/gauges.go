package observe

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// CacheStats is the read-only view of a memoizing fetcher that the cache
// gauges observe. *breed.CachingFetcher implements it.
type CacheStats interface {
	Calls() int64
	Len() int
}

// RegisterCacheGauges reports the delegate call count and the number of cached
// entries of stats on every collection. Unregister the returned registration
// when the cache goes away.
func RegisterCacheGauges(meter metric.Meter, meta FetcherMeta, stats CacheStats) (metric.Registration, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	calls, err := meter.Int64ObservableCounter(
		"breed.cache.delegate_calls",
		metric.WithDescription("Lookups the cache passed on to its delegate"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	entries, err := meter.Int64ObservableGauge(
		"breed.cache.entries",
		metric.WithDescription("Breeds currently held by the cache"),
		metric.WithUnit("{breed}"),
	)
	if err != nil {
		return nil, err
	}

	opt := metric.WithAttributes(meta.attributes()...)
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(calls, stats.Calls(), opt)
		o.ObserveInt64(entries, int64(stats.Len()), opt)
		return nil
	}, calls, entries)
}
