package command

import (
	"errors"
	"fmt"
	"slices"
)

// ErrMissingArgs is returned when a command needs positional arguments.
var ErrMissingArgs = errors.New("missing arguments")

// FlagValidatorType validates a flag value.
type FlagValidatorType func(any) error

// FlagValidators runs validators in order and returns the first error.
func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

var validOutputFlagValues = []string{"text", "json"}

// OutputValidator accepts the supported --output values.
func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(validOutputFlagValues, s) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}
