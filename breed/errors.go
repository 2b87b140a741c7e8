package breed

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("breed: not found")

// NotFoundError reports that a breed does not exist or could not be resolved.
// It is the only error kind that crosses the Fetcher boundary.
type NotFoundError struct {
	// Breed is the name exactly as it was requested.
	Breed Name
}

// NotFound returns a *NotFoundError for name.
func NotFound(name Name) error {
	return &NotFoundError{Breed: name}
}

func (e *NotFoundError) Error() string {
	if v, ok := e.Breed.Value(); ok {
		return fmt.Sprintf("breed: %q not found", v)
	}
	return "breed: not found (no breed name given)"
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NotFoundName extracts the requested breed name from err.
// The second return value is false if err carries no *NotFoundError.
func NotFoundName(err error) (Name, bool) {
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return NoName, false
	}
	return nf.Breed, true
}
