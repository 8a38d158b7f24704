package freesleep

import "errors"

// Sentinel errors for the freesleep package. Callers should use
// errors.Is for comparison since errors may be wrapped.
var (
	// ErrUnavailable indicates a network-class failure: timeout,
	// connection error, or a 5xx response. Retryable for idempotent
	// operations.
	ErrUnavailable = errors.New("freesleep: device unavailable")

	// ErrDeviceRejected indicates the device explicitly refused a
	// well-formed request (4xx). Never retried.
	ErrDeviceRejected = errors.New("freesleep: device rejected request")
)
