package breed

import (
	"context"
	"strings"
)

// StaticFetcher resolves breeds from a fixed table.
//
// Table keys are matched case-insensitively. Breeds missing from the table,
// and the absent name, fail with *NotFoundError.
type StaticFetcher struct {
	table map[string][]string
}

// NewStaticFetcher creates a fetcher over a private copy of table.
func NewStaticFetcher(table map[string][]string) *StaticFetcher {
	t := make(map[string][]string, len(table))
	for k, v := range table {
		t[strings.ToLower(k)] = normalize(v)
	}
	return &StaticFetcher{table: t}
}

// SubBreeds returns a copy of the table entry for name.
func (s *StaticFetcher) SubBreeds(_ context.Context, name Name) ([]string, error) {
	subs, ok := s.Lookup(name)
	if !ok {
		return nil, NotFound(name)
	}
	return subs, nil
}

// Lookup returns a copy of the table entry for name without producing an
// error value.
func (s *StaticFetcher) Lookup(name Name) ([]string, bool) {
	key, ok := cacheKey(name)
	if !ok {
		return nil, false
	}
	subs, ok := s.table[key]
	if !ok {
		return nil, false
	}
	return normalize(subs), true
}

// Breeds returns the number of breeds in the table.
func (s *StaticFetcher) Breeds() int {
	return len(s.table)
}

// Ensure StaticFetcher implements Fetcher
var _ Fetcher = (*StaticFetcher)(nil)
