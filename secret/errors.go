package secret

import "errors"

var (
	// ErrMissingEnv is returned when ${VAR} names an unset variable.
	ErrMissingEnv = errors.New("secret: missing required environment variables")

	// ErrUnknownProvider is returned for references to unregistered providers.
	ErrUnknownProvider = errors.New("secret: provider is not registered")

	// ErrEmptySecret is returned in strict mode when a reference resolves to "".
	ErrEmptySecret = errors.New("secret: reference resolved to an empty value")

	// ErrInvalidProvider is returned by Registry.Register for a blank name,
	// a nil factory, or a name that is already taken.
	ErrInvalidProvider = errors.New("secret: invalid provider registration")

	// ErrInvalidRef is returned for malformed references.
	ErrInvalidRef = errors.New("secret: invalid reference")
)
