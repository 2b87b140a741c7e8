// Package resilience guards calls to the remote breed catalog.
//
// The patterns are small and composable:
//
//   - Circuit Breaker: stops calling a catalog that keeps failing and lets a
//     single probe through once the reset timeout has passed.
//
//   - Rate Limiter: token bucket that keeps lookups under the catalog's
//     published request rate.
//
//   - Bulkhead: caps the number of catalog requests in flight.
//
//   - Timeout: bounds a single catalog request.
//
// There is deliberately no retry pattern. A failed catalog call is reported
// once; callers such as the dogapi client turn it into a fallback lookup.
//
// # Usage
//
//	exec := resilience.New(resilience.Config{
//	    Timeout:       5 * time.Second,
//	    Rate:          20,
//	    Burst:         5,
//	    MaxConcurrent: 4,
//	    MaxFailures:   3,
//	    ResetTimeout:  time.Minute,
//	})
//
//	subs, err := resilience.Call(ctx, exec, func(ctx context.Context) ([]string, error) {
//	    return fetchFromCatalog(ctx, "hound")
//	})
package resilience
