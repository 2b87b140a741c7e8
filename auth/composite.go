package auth

import "context"

// CompositeAuthenticator tries authenticators in order and returns the first
// success. When none succeed it returns the last failure.
type CompositeAuthenticator struct {
	authenticators []Authenticator
}

// NewCompositeAuthenticator creates a composite authenticator.
func NewCompositeAuthenticator(auths ...Authenticator) *CompositeAuthenticator {
	return &CompositeAuthenticator{authenticators: auths}
}

// Name returns "composite".
func (c *CompositeAuthenticator) Name() string {
	return "composite"
}

// Supports reports whether any authenticator supports the request.
func (c *CompositeAuthenticator) Supports(req *Request) bool {
	for _, a := range c.authenticators {
		if a.Supports(req) {
			return true
		}
	}
	return false
}

// Authenticate tries each supporting authenticator in sequence.
func (c *CompositeAuthenticator) Authenticate(ctx context.Context, req *Request) (*Result, error) {
	var last *Result

	for _, a := range c.authenticators {
		if !a.Supports(req) {
			continue
		}

		result, err := a.Authenticate(ctx, req)
		if err != nil {
			return nil, err
		}
		if result.Authenticated {
			return result, nil
		}
		last = result
	}

	if last != nil {
		return last, nil
	}
	return Failure(ErrMissingCredentials, AuthMethodNone), nil
}

var _ Authenticator = (*CompositeAuthenticator)(nil)
