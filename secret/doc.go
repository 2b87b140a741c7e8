// Package secret resolves credentials referenced from breedfetch
// configuration: the catalog token, accepted API keys and the JWT secret.
//
// Values are first expanded strictly against the environment (see
// ExpandEnvStrict). A value that then carries a "secretref:" reference is
// resolved through a Provider:
//
//	token: secretref:env:DOG_API_TOKEN
//	jwt_secret: secretref:file:/run/secrets/jwt
//	header: Bearer secretref:env:DOG_API_TOKEN
//
// The env and file providers are built in; NewBuiltinResolver wires both.
package secret
