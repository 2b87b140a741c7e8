package health

import (
	"context"
	"fmt"
	"time"
)

// Pinger is satisfied by catalog clients that can probe the remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CatalogCheckerConfig configures the catalog checker.
type CatalogCheckerConfig struct {
	// Name is reported by Name. Default: "catalog"
	Name string

	// SlowThreshold marks a successful but slow ping as degraded.
	// Default: 2 seconds
	SlowThreshold time.Duration

	// FallbackAvailable reports an unreachable catalog as degraded rather
	// than unhealthy, since lookups can still be answered from the fallback
	// table.
	FallbackAvailable bool
}

// CatalogChecker probes the remote breed catalog.
type CatalogChecker struct {
	pinger Pinger
	config CatalogCheckerConfig
}

// NewCatalogChecker creates a checker around p.
func NewCatalogChecker(p Pinger, config CatalogCheckerConfig) *CatalogChecker {
	if config.Name == "" {
		config.Name = "catalog"
	}
	if config.SlowThreshold <= 0 {
		config.SlowThreshold = 2 * time.Second
	}
	return &CatalogChecker{pinger: p, config: config}
}

// Name returns the name of this checker.
func (c *CatalogChecker) Name() string {
	return c.config.Name
}

// Check pings the catalog.
func (c *CatalogChecker) Check(ctx context.Context) Result {
	start := time.Now()
	err := c.pinger.Ping(ctx)
	latency := time.Since(start)

	details := map[string]any{"latency_ms": latency.Milliseconds()}

	switch {
	case err != nil && c.config.FallbackAvailable:
		r := Degraded("catalog unreachable, serving fallback table").WithDetails(details)
		r.Error = err
		return r
	case err != nil:
		return Unhealthy("catalog unreachable", err).WithDetails(details)
	case latency > c.config.SlowThreshold:
		return Degraded(fmt.Sprintf("catalog slow: %s", latency.Round(time.Millisecond))).WithDetails(details)
	default:
		return Healthy("catalog reachable").WithDetails(details)
	}
}
