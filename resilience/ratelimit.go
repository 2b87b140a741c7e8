package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// Rate is the number of catalog requests allowed per second.
	// Default: 10
	Rate float64

	// Burst is the bucket size.
	// Default: 5
	Burst int

	// MaxWait is how long Execute waits for a token before giving up.
	// Zero rejects immediately.
	MaxWait time.Duration
}

// RateLimiter implements a token bucket rate limiter.
type RateLimiter struct {
	config RateLimiterConfig

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a rate limiter with a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 10
	}
	if config.Burst <= 0 {
		config.Burst = 5
	}

	return &RateLimiter{
		config: config,
		tokens: float64(config.Burst),
		last:   time.Now(),
	}
}

// Allow takes a token if one is available.
func (rl *RateLimiter) Allow() bool {
	_, ok := rl.take()
	return ok
}

// take takes a token, or reports how long until one is available.
func (rl *RateLimiter) take() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.tokens += now.Sub(rl.last).Seconds() * rl.config.Rate
	rl.last = now
	if burst := float64(rl.config.Burst); rl.tokens > burst {
		rl.tokens = burst
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return 0, true
	}
	missing := 1 - rl.tokens
	return time.Duration(missing / rl.config.Rate * float64(time.Second)), false
}

// Wait blocks until a token is taken, MaxWait passes, or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	deadline := time.Now().Add(rl.config.MaxWait)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		wait, ok := rl.take()
		if ok {
			return nil
		}
		if time.Now().Add(wait).After(deadline) {
			return ErrRateLimitExceeded
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Execute runs op once a token is available.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := rl.Wait(ctx); err != nil {
		return err
	}
	return op(ctx)
}

// Tokens returns the number of tokens currently in the bucket.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := time.Since(rl.last).Seconds()
	return min(rl.tokens+elapsed*rl.config.Rate, float64(rl.config.Burst))
}
