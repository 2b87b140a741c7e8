package resilience

import (
	"context"
	"time"
)

// Config describes a catalog guard in plain values, as read from
// application configuration. Zero fields leave the matching pattern out.
type Config struct {
	Timeout       time.Duration
	Rate          float64
	Burst         int
	MaxConcurrent int
	MaxFailures   int
	ResetTimeout  time.Duration

	// OnStateChange is passed to the circuit breaker.
	OnStateChange func(from, to State)
}

// Executor composes the resilience patterns around one dependency.
// A nil *Executor runs operations unguarded.
type Executor struct {
	circuitBreaker *CircuitBreaker
	rateLimiter    *RateLimiter
	bulkhead       *Bulkhead
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// New builds an Executor from cfg.
func New(cfg Config) *Executor {
	var opts []ExecutorOption
	if cfg.Rate > 0 {
		opts = append(opts, WithRateLimiter(NewRateLimiter(RateLimiterConfig{
			Rate:  cfg.Rate,
			Burst: cfg.Burst,
		})))
	}
	if cfg.MaxConcurrent > 0 {
		opts = append(opts, WithBulkhead(NewBulkhead(BulkheadConfig{
			MaxConcurrent: cfg.MaxConcurrent,
		})))
	}
	if cfg.MaxFailures > 0 {
		opts = append(opts, WithCircuitBreaker(NewCircuitBreaker(CircuitBreakerConfig{
			MaxFailures:   cfg.MaxFailures,
			ResetTimeout:  cfg.ResetTimeout,
			OnStateChange: cfg.OnStateChange,
		})))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	return NewExecutor(opts...)
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRateLimiter adds rate limiting to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// WithBulkhead adds bulkhead isolation to the executor.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// WithTimeout adds a per-call timeout to the executor.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// CircuitBreaker returns the configured breaker, or nil.
func (e *Executor) CircuitBreaker() *CircuitBreaker {
	if e == nil {
		return nil
	}
	return e.circuitBreaker
}

// Execute runs op through the configured patterns, outermost first:
// rate limiter, bulkhead, circuit breaker, timeout.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	if e == nil {
		return op(ctx)
	}

	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.circuitBreaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.circuitBreaker.Execute(ctx, inner)
		}
	}

	if e.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	if e.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}

// Call runs op through e and returns its value.
func Call[T any](ctx context.Context, e *Executor, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := e.Execute(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
