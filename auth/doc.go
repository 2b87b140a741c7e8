// Package auth authenticates callers of the breed lookup service.
//
// Two methods are supported: static API keys sent in a header and HMAC-signed
// JWT bearer tokens. Both produce an Identity, which Middleware attaches to
// the request context. An Identity may carry scopes; routes can require one
// with RequireScope.
package auth
