// Package dogapi implements breed.Fetcher against the dog.ceo catalog.
//
// Every failure of the remote call (transport errors, 5xx responses,
// malformed bodies, a non-success status, an open circuit) is reported as a
// *breed.NotFoundError, after consulting a small fallback table so common
// breeds still resolve without network access. The underlying cause is
// logged at debug level.
//
// # Usage
//
//	client := dogapi.New(dogapi.Config{
//	    Executor: resilience.New(resilience.Config{Timeout: 5 * time.Second, MaxFailures: 5}),
//	})
//	subs, err := client.SubBreeds(ctx, breed.NameOf("hound"))
package dogapi
