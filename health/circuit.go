package health

import (
	"context"

	"github.com/jonwraymond/breedfetch/resilience"
)

// CircuitChecker reports the state of a circuit breaker: closed is healthy,
// half-open is degraded and open is unhealthy.
type CircuitChecker struct {
	cb *resilience.CircuitBreaker
}

// NewCircuitChecker creates a checker for cb.
func NewCircuitChecker(cb *resilience.CircuitBreaker) *CircuitChecker {
	return &CircuitChecker{cb: cb}
}

// Name returns "circuit:" plus the breaker name.
func (c *CircuitChecker) Name() string {
	return "circuit:" + c.cb.Name()
}

// Check reads the breaker state.
func (c *CircuitChecker) Check(context.Context) Result {
	m := c.cb.Metrics()
	details := map[string]any{
		"state":    m.State.String(),
		"failures": m.Failures,
		"rejected": m.Rejected,
	}
	if !m.LastFailure.IsZero() {
		details["last_failure"] = m.LastFailure.UTC()
	}

	switch m.State {
	case resilience.StateOpen:
		return Unhealthy("circuit open", resilience.ErrCircuitOpen).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open").WithDetails(details)
	default:
		return Healthy("circuit closed").WithDetails(details)
	}
}
