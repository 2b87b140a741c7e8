package observe

import "go.opentelemetry.io/otel/attribute"

// FetcherMeta describes an instrumented fetcher for telemetry purposes.
type FetcherMeta struct {
	Name    string // Fetcher name, e.g. "dogapi" or "cache" (required)
	Version string // Fetcher version (optional)
	Source  string // Where the data comes from, e.g. a catalog URL (optional)
}

// SpanName returns the deterministic span name for this fetcher.
// Format: breed.lookup.<name>
func (m FetcherMeta) SpanName() string {
	return "breed.lookup." + m.Name
}

// Validate checks the required fields.
func (m FetcherMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingFetcherName
	}
	return nil
}

func (m FetcherMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("fetcher.name", m.Name),
	}
	if m.Source != "" {
		attrs = append(attrs, attribute.String("fetcher.source", m.Source))
	}
	return attrs
}
