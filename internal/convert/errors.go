package convert

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned (wrapped in a *ConversionError) when no backend
// is registered for a file's extension.
var ErrUnsupported = errors.New("unsupported file format")

// ConversionError is the single failure type the engine surfaces. Every
// backend error, panic, or deadline overrun is wrapped into one so callers
// handle exactly one error shape.
type ConversionError struct {
	Filename string
	Cause    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s: %v", e.Filename, e.Cause)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}
