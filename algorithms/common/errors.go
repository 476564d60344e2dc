package common

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when an analysis parameter, a window
// name or a catalog entry cannot be used. It is never silently defaulted.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrEmptySignal is returned when an analysis is requested on a buffer
// without samples
var ErrEmptySignal = fmt.Errorf("%w: empty signal", ErrInvalidConfiguration)

// InvalidConfigf formats a configuration error that wraps ErrInvalidConfiguration
func InvalidConfigf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
