package auth

import (
	"slices"
	"time"
)

// AuthMethod indicates how authentication was performed.
type AuthMethod string

const (
	AuthMethodNone      AuthMethod = "none"
	AuthMethodJWT       AuthMethod = "jwt"
	AuthMethodAPIKey    AuthMethod = "api_key"
	AuthMethodAnonymous AuthMethod = "anonymous"
)

// Identity represents an authenticated caller.
type Identity struct {
	Principal string
	Method    AuthMethod
	Scopes    []string
	Claims    map[string]any
	ExpiresAt time.Time
}

// HasScope reports whether the identity was granted scope.
func (id *Identity) HasScope(scope string) bool {
	return slices.Contains(id.Scopes, scope)
}

// IsExpired reports whether the identity has an expiry in the past.
func (id *Identity) IsExpired() bool {
	return !id.ExpiresAt.IsZero() && time.Now().After(id.ExpiresAt)
}

// Anonymous returns the identity used when authentication is disabled.
func Anonymous() *Identity {
	return &Identity{Principal: "anonymous", Method: AuthMethodAnonymous}
}
