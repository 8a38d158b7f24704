package pod

import "errors"

// Sentinel errors for the pod package. Callers should use errors.Is
// for comparison since errors may be wrapped with additional context.
var (
	// ErrUnknownSide indicates a side name that is neither "left" nor "right".
	ErrUnknownSide = errors.New("pod: unknown side")

	// ErrUnknownDevice indicates an external device ID absent from the registry.
	ErrUnknownDevice = errors.New("pod: unknown device id")
)
