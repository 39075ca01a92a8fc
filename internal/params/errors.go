package params

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks raw UI text that is not a finite number.
	ErrParse = errors.New("params: invalid numeric input")

	errNotFinite = errors.New("value is not finite")
	errNegative  = errors.New("value must not be negative")
)

// ParseError names the field and the raw text that failed to parse.
type ParseError struct {
	Field Field
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("params: %s: cannot parse %q: %v", e.Field, e.Raw, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
