package breed

import "context"

// Name is an optional breed identifier.
//
// The zero value is the absent name. An absent name is a valid lookup input
// that is passed to the underlying fetcher but never cached.
type Name struct {
	value string
	valid bool
}

// NoName is the absent breed name.
var NoName = Name{}

// NameOf returns a present Name holding s. The empty string is a present name.
func NameOf(s string) Name {
	return Name{value: s, valid: true}
}

// Value returns the name and whether it is present.
func (n Name) Value() (string, bool) {
	return n.value, n.valid
}

// Valid reports whether the name is present.
func (n Name) Valid() bool {
	return n.valid
}

// String returns the name as given, or "<none>" for the absent name.
func (n Name) String() string {
	if !n.valid {
		return "<none>"
	}
	return n.value
}

// Fetcher resolves a breed to its sub-breeds.
//
// Contract:
//   - Errors: the only error kind returned is *NotFoundError carrying the
//     requested name, whatever the underlying cause (network, parsing,
//     unknown breed).
//   - Ownership: callers own the returned slice.
//   - Context: implementations should honor cancellation where they block.
type Fetcher interface {
	SubBreeds(ctx context.Context, name Name) ([]string, error)
}

// FetcherFunc is an adapter to allow ordinary functions to be used as Fetchers.
type FetcherFunc func(ctx context.Context, name Name) ([]string, error)

// SubBreeds calls f(ctx, name).
func (f FetcherFunc) SubBreeds(ctx context.Context, name Name) ([]string, error) {
	return f(ctx, name)
}

// Ensure FetcherFunc implements Fetcher
var _ Fetcher = FetcherFunc(nil)
