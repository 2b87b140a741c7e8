package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryCheckerConfig configures the memory health checker.
type MemoryCheckerConfig struct {
	// WarningThreshold is the heap/limit ratio that reports degraded.
	// Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the heap/limit ratio that reports unhealthy.
	// Default: 0.95
	CriticalThreshold float64

	// Limit is the heap budget in bytes. Zero uses the memory obtained from
	// the OS.
	Limit uint64
}

// MemoryChecker checks heap usage against a budget.
type MemoryChecker struct {
	config MemoryCheckerConfig
}

// NewMemoryChecker creates a new memory health checker.
func NewMemoryChecker(config MemoryCheckerConfig) *MemoryChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= config.WarningThreshold || config.CriticalThreshold > 1 {
		config.CriticalThreshold = min(config.WarningThreshold+0.15, 0.99)
	}
	return &MemoryChecker{config: config}
}

// Name returns the name of this checker.
func (m *MemoryChecker) Name() string {
	return "memory"
}

// Check reads runtime memory statistics.
func (m *MemoryChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	limit := m.config.Limit
	if limit == 0 {
		limit = stats.Sys
	}

	details := map[string]any{
		"heap_alloc": stats.HeapAlloc,
		"sys":        stats.Sys,
		"limit":      limit,
		"num_gc":     stats.NumGC,
		"goroutines": runtime.NumGoroutine(),
	}
	if limit == 0 {
		return Healthy("memory stats unavailable").WithDetails(details)
	}

	ratio := float64(stats.HeapAlloc) / float64(limit)
	details["usage_percent"] = ratio * 100
	msg := fmt.Sprintf("heap at %.1f%% of limit", ratio*100)

	switch {
	case ratio >= m.config.CriticalThreshold:
		return Unhealthy(msg, ErrHeapCritical).WithDetails(details)
	case ratio >= m.config.WarningThreshold:
		return Degraded(msg).WithDetails(details)
	default:
		return Healthy(msg).WithDetails(details)
	}
}
