package auth

import (
	"context"
	"net/http"
)

// Authenticator validates credentials and returns an identity.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: Authenticate returns (nil, error) for internal errors and
//     (Result, nil) for rejected credentials; check Result.Authenticated.
type Authenticator interface {
	// Name returns a unique identifier for this authenticator.
	Name() string

	// Supports reports whether the request carries credentials this
	// authenticator understands.
	Supports(req *Request) bool

	// Authenticate validates the credentials in req.
	Authenticate(ctx context.Context, req *Request) (*Result, error)
}

// Request carries the credentials of one incoming call.
type Request struct {
	Header http.Header
}

// NewRequest builds a Request from an HTTP request.
func NewRequest(r *http.Request) *Request {
	return &Request{Header: r.Header}
}

// Get returns the first value of the named header.
func (r *Request) Get(key string) string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get(key)
}

// Result is the outcome of an authentication attempt.
type Result struct {
	Authenticated bool
	Identity      *Identity
	Error         error
	Method        AuthMethod
}

// Success creates a successful result.
func Success(id *Identity) *Result {
	return &Result{Authenticated: true, Identity: id, Method: id.Method}
}

// Failure creates a rejected result.
func Failure(err error, method AuthMethod) *Result {
	return &Result{Error: err, Method: method}
}
