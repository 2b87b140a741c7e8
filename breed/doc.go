// Package breed defines the sub-breed lookup contract and its memoizing
// decorator.
//
// A Fetcher resolves a breed Name to its ordered list of sub-breeds or fails
// with a *NotFoundError. CachingFetcher wraps any Fetcher, lower-cases lookup
// keys, memoizes successful results and counts the calls it makes to the
// wrapped fetcher. Failed lookups are never cached, so a breed that was not
// found is asked for again on the next lookup.
//
// # Usage
//
//	remote := dogapi.New(dogapi.Config{})
//	fetcher := breed.NewCachingFetcher(remote)
//
//	subs, err := fetcher.SubBreeds(ctx, breed.NameOf("Hound"))
//	if breed.IsNotFound(err) {
//	    // unknown breed, or the catalog could not be reached
//	}
//
//	// Served from the cache, fetcher.Calls() is unchanged.
//	subs, _ = fetcher.SubBreeds(ctx, breed.NameOf("HOUND"))
package breed
