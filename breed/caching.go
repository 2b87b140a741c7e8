package breed

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Option configures a CachingFetcher.
type Option func(*CachingFetcher)

// WithSingleFlight collapses concurrent misses for the same normalized key
// into a single call to the delegate. Callers that joined the call share its
// result, or its error, and the call counter counts it once. The shared call
// does not observe cancellation of any caller's context.
func WithSingleFlight() Option {
	return func(c *CachingFetcher) {
		c.group = &singleflight.Group{}
	}
}

// CachingFetcher memoizes successful lookups of a delegate Fetcher.
//
// Contract:
//   - Keys: names are lower-cased before use as cache keys; the absent name
//     is never cached.
//   - Errors: delegate errors are returned unchanged and never cached.
//   - Ownership: every returned slice is a fresh copy.
//   - Concurrency: safe for concurrent use. The delegate is never called with
//     the cache lock held.
type CachingFetcher struct {
	delegate Fetcher
	calls    atomic.Int64
	group    *singleflight.Group

	mu      sync.RWMutex
	entries map[string][]string
}

// NewCachingFetcher wraps delegate with an unbounded, non-expiring cache.
//
// It panics if delegate is nil.
func NewCachingFetcher(delegate Fetcher, opts ...Option) *CachingFetcher {
	if delegate == nil {
		panic("breed: NewCachingFetcher called with nil delegate")
	}

	c := &CachingFetcher{
		delegate: delegate,
		entries:  make(map[string][]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubBreeds returns the sub-breeds of name.
//
// A cache hit returns without calling the delegate. On a miss the call counter
// is incremented, the delegate is called with name exactly as given, and a
// successful result is stored under the normalized key.
func (c *CachingFetcher) SubBreeds(ctx context.Context, name Name) ([]string, error) {
	key, cacheable := cacheKey(name)
	if !cacheable {
		subs, err := c.fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		return normalize(subs), nil
	}

	if subs, ok := c.get(key); ok {
		return normalize(subs), nil
	}

	if c.group != nil {
		return c.sharedFetch(ctx, key, name)
	}

	subs, err := c.fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	c.put(key, subs)
	return normalize(subs), nil
}

// Calls returns the number of delegate invocations attempted so far,
// successful or not. Cache hits are not counted.
func (c *CachingFetcher) Calls() int64 {
	return c.calls.Load()
}

// Len returns the number of cached breeds.
func (c *CachingFetcher) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// fetch counts and performs one delegate call. The returned slice is owned by
// the caching fetcher.
func (c *CachingFetcher) fetch(ctx context.Context, name Name) ([]string, error) {
	c.calls.Add(1)

	subs, err := c.delegate.SubBreeds(ctx, name)
	if err != nil {
		return nil, err
	}
	return normalize(subs), nil
}

// sharedFetch runs at most one delegate call per key. The call is detached
// from the cancellation of the caller that started it, so one caller giving
// up never decides the answer of the others. A caller whose own ctx ends
// stops waiting and gets NotFound; the call keeps running for the rest.
func (c *CachingFetcher) sharedFetch(ctx context.Context, key string, name Name) ([]string, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// A flight for this key may have completed between the miss and DoChan.
		if subs, ok := c.get(key); ok {
			return subs, nil
		}
		subs, err := c.fetch(flightCtx, name)
		if err != nil {
			return nil, err
		}
		c.put(key, subs)
		return subs, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return normalize(res.Val.([]string)), nil
	case <-ctx.Done():
		return nil, NotFound(name)
	}
}

func (c *CachingFetcher) get(key string) ([]string, bool) {
	c.mu.RLock()
	subs, ok := c.entries[key]
	c.mu.RUnlock()
	return subs, ok
}

func (c *CachingFetcher) put(key string, subs []string) {
	c.mu.Lock()
	c.entries[key] = subs
	c.mu.Unlock()
}

// Ensure CachingFetcher implements Fetcher
var _ Fetcher = (*CachingFetcher)(nil)
