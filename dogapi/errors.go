package dogapi

import "errors"

// Errors describing why a catalog call failed. They never escape SubBreeds,
// which reports NotFound instead; Ping returns them.
var (
	// ErrUnexpectedStatus is returned for 5xx and 429 responses.
	ErrUnexpectedStatus = errors.New("dogapi: unexpected HTTP status")

	// ErrMalformedResponse is returned when the body is not a JSON object.
	ErrMalformedResponse = errors.New("dogapi: malformed response")

	// ErrCatalogStatus is returned when the catalog answers with a status
	// other than "success".
	ErrCatalogStatus = errors.New("dogapi: catalog reported failure")
)
