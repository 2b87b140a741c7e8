package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures the JWT authenticator.
type JWTConfig struct {
	// Secret is the HMAC signing key. Required.
	Secret []byte

	// Issuer is the expected iss claim. Empty skips the check.
	Issuer string

	// Audience is the expected aud claim. Empty skips the check.
	Audience string

	// ScopeClaim holds space-separated scopes. Default: "scope"
	ScopeClaim string
}

// JWTAuthenticator validates HMAC-signed bearer tokens.
type JWTAuthenticator struct {
	config JWTConfig
	parser *jwt.Parser
}

// NewJWTAuthenticator creates a new JWT authenticator.
func NewJWTAuthenticator(config JWTConfig) *JWTAuthenticator {
	if config.ScopeClaim == "" {
		config.ScopeClaim = "scope"
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	if config.Audience != "" {
		opts = append(opts, jwt.WithAudience(config.Audience))
	}

	return &JWTAuthenticator{config: config, parser: jwt.NewParser(opts...)}
}

// Name returns "jwt".
func (a *JWTAuthenticator) Name() string {
	return string(AuthMethodJWT)
}

// Supports reports whether the request carries a bearer token.
func (a *JWTAuthenticator) Supports(req *Request) bool {
	_, ok := bearerToken(req)
	return ok
}

// Authenticate validates the bearer token.
func (a *JWTAuthenticator) Authenticate(_ context.Context, req *Request) (*Result, error) {
	raw, ok := bearerToken(req)
	if !ok {
		return Failure(ErrMissingCredentials, AuthMethodJWT), nil
	}

	claims := jwt.MapClaims{}
	_, err := a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.config.Secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Failure(ErrTokenExpired, AuthMethodJWT), nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Failure(ErrTokenMalformed, AuthMethodJWT), nil
	case err != nil:
		return Failure(ErrInvalidCredentials, AuthMethodJWT), nil
	}

	return Success(a.identity(claims)), nil
}

func (a *JWTAuthenticator) identity(claims jwt.MapClaims) *Identity {
	id := &Identity{
		Method: AuthMethodJWT,
		Claims: map[string]any(claims),
	}
	if sub, err := claims.GetSubject(); err == nil {
		id.Principal = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	if scope, ok := claims[a.config.ScopeClaim].(string); ok {
		id.Scopes = strings.Fields(scope)
	}
	return id
}

func bearerToken(req *Request) (string, bool) {
	h := req.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

var _ Authenticator = (*JWTAuthenticator)(nil)
