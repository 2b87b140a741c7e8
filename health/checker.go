package health

import (
	"context"
	"maps"
	"time"
)

// Status grades a component. Larger values are worse, so the overall
// status of a report is the maximum of its results.
type Status int

const (
	StatusHealthy Status = iota
	// StatusDegraded means lookups are still answered, but not as asked:
	// a slow catalog, a half-open circuit, or answers from the fallback
	// table only.
	StatusDegraded
	StatusUnhealthy
)

var statusNames = [...]string{"healthy", "degraded", "unhealthy"}

func (s Status) String() string {
	if s < StatusHealthy || s > StatusUnhealthy {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of one check. The aggregator fills Duration, and
// Timestamp when the checker left it zero.
type Result struct {
	Status    Status
	Message   string
	Details   map[string]any
	Duration  time.Duration
	Timestamp time.Time
	Error     error
}

func newResult(s Status, msg string, err error) Result {
	return Result{Status: s, Message: msg, Error: err, Timestamp: time.Now()}
}

func Healthy(msg string) Result  { return newResult(StatusHealthy, msg, nil) }
func Degraded(msg string) Result { return newResult(StatusDegraded, msg, nil) }

// Unhealthy records err as the cause.
func Unhealthy(msg string, err error) Result {
	return newResult(StatusUnhealthy, msg, err)
}

// WithDetails merges details into the result's details.
func (r Result) WithDetails(details map[string]any) Result {
	merged := make(map[string]any, len(r.Details)+len(details))
	maps.Copy(merged, r.Details)
	maps.Copy(merged, details)
	r.Details = merged
	return r
}

// Checker probes one component of the lookup pipeline. Check must honor
// ctx and report failures in the Result rather than panic.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc names fn as a Checker.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

func (f *CheckerFunc) Name() string                     { return f.name }
func (f *CheckerFunc) Check(ctx context.Context) Result { return f.fn(ctx) }
