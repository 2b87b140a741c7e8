// Package observe provides observability primitives for breed lookups.
//
// It is a pure instrumentation library: it wraps breed.Fetcher values with
// tracing, metrics and structured logging, and exposes cache gauges. It does
// no I/O beyond exporter setup. Errors returned by wrapped fetchers pass
// through unchanged, so breed.NotFoundError values keep their identity.
package observe
