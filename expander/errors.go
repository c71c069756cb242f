package expander

import (
	"errors"
	"fmt"
)

// ErrTooLarge is returned when an expansion would exceed the requested limit.
var ErrTooLarge = errors.New("expansion too large")

// ExpansionError reports the size that was rejected by Expand.
type ExpansionError struct {
	Size  Cardinality
	Limit int
}

func (e *ExpansionError) Error() string {
	if e.Size.IsUnbounded() {
		return fmt.Sprintf("%v: size is unbounded (more than %d)", ErrTooLarge, uint64(MaxSafeSize))
	}

	return fmt.Sprintf("%v: %s results exceed the limit of %d", ErrTooLarge, e.Size, e.Limit)
}

func (e *ExpansionError) Unwrap() error {
	return ErrTooLarge
}
