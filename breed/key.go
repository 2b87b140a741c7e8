package breed

import "strings"

// cacheKey returns the normalized cache key for name.
// The absent name has no key and is never cached.
//
// strings.ToLower applies Unicode case mapping, so the key does not depend on
// the host locale.
func cacheKey(name Name) (string, bool) {
	v, ok := name.Value()
	if !ok {
		return "", false
	}
	return strings.ToLower(v), true
}

// normalize returns a private copy of subs. A nil result becomes an empty,
// non-nil slice.
func normalize(subs []string) []string {
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}
