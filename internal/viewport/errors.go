package viewport

import (
	"fmt"
	"strconv"
)

// InvalidRangeError reports a degenerate rectangle or an out-of-range
// setting. The message is meant for the user as is.
type InvalidRangeError struct {
	Msg string
	Err error
}

func (e *InvalidRangeError) Error() string { return e.Msg }

func (e *InvalidRangeError) Unwrap() error { return e.Err }

func invalidRange(format string, args ...any) error {
	return &InvalidRangeError{Msg: fmt.Sprintf(format, args...)}
}

// OutOfBoundsError reports a single mark placed too far outside the axis.
type OutOfBoundsError struct {
	Name     string
	Position float64
	Lo, Hi   float64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%q must be between %s and %s",
		e.Name, strconv.FormatFloat(e.Lo, 'g', -1, 64), strconv.FormatFloat(e.Hi, 'g', -1, 64))
}
