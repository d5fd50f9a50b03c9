package recommend

import (
	"errors"
	"fmt"
)

// ErrInvalidComfortLevel is returned when a request names a comfort level
// that isn't one of the five fixed variants. No scoring happens in that case.
var ErrInvalidComfortLevel = errors.New("invalid comfort level")

// ErrInvalidFilter is returned when a request's hard filters are internally
// inconsistent, e.g. a negative page bound or max below min.
var ErrInvalidFilter = errors.New("invalid filter")

func invalidComfortLevel(value string) error {
	return fmt.Errorf("%w: %q", ErrInvalidComfortLevel, value)
}

func invalidFilter(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidFilter, fmt.Sprintf(format, args...))
}
