package command

import "errors"

// Sentinel errors for the command package. Callers should use
// errors.Is for comparison since errors may be wrapped.
var (
	// ErrUnknownCommand indicates a name absent from the registry.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrMissingValue indicates a command that requires a value got none.
	ErrMissingValue = errors.New("command: missing value")

	// ErrUnexpectedValue indicates a value supplied where none is
	// accepted, or a value of the wrong type.
	ErrUnexpectedValue = errors.New("command: unexpected value")

	// ErrValueOutOfRange indicates a numeric value outside the
	// registry's declared range.
	ErrValueOutOfRange = errors.New("command: value out of range")
)
