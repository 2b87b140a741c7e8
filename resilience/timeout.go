package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures Timeout.
type TimeoutConfig struct {
	// Timeout bounds one catalog request. Default: 10 seconds.
	Timeout time.Duration
}

// Timeout bounds each call with its own deadline.
type Timeout struct {
	d time.Duration
}

// NewTimeout returns a Timeout, applying the default for a non-positive
// duration.
func NewTimeout(config TimeoutConfig) *Timeout {
	d := config.Timeout
	if d <= 0 {
		d = 10 * time.Second
	}
	return &Timeout{d: d}
}

// Duration returns the effective timeout.
func (t *Timeout) Duration() time.Duration { return t.d }

// Execute runs op under a deadline of t.Duration(). It returns ErrTimeout
// when that deadline passes first, and the parent's error when the parent
// context ends first. Execute does not wait for an op that ignores its
// context; such an op finishes in the background.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeoutCause(ctx, t.d, ErrTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- op(ctx) }()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) && expired(ctx) {
			return ErrTimeout
		}
		return err
	case <-ctx.Done():
		if expired(ctx) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// expired reports whether ctx ended because of our own deadline.
func expired(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrTimeout)
}
