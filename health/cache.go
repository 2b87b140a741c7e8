package health

import (
	"context"
	"fmt"
)

// CacheStats is the read-only view of a lookup cache.
type CacheStats interface {
	Calls() int64
	Len() int
}

// CacheChecker reports cache statistics. The cache itself cannot fail, so
// the result is always healthy; it exists to surface the numbers.
type CacheChecker struct {
	stats CacheStats
}

// NewCacheChecker creates a checker for stats.
func NewCacheChecker(stats CacheStats) *CacheChecker {
	return &CacheChecker{stats: stats}
}

// Name returns the name of this checker.
func (c *CacheChecker) Name() string {
	return "cache"
}

// Check snapshots the cache counters.
func (c *CacheChecker) Check(context.Context) Result {
	calls, entries := c.stats.Calls(), c.stats.Len()
	return Healthy(fmt.Sprintf("%d breeds cached", entries)).WithDetails(map[string]any{
		"delegate_calls": calls,
		"entries":        entries,
	})
}
