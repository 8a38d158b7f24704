package engine

import "errors"

// Sentinel errors for the engine package. Callers should use
// errors.Is for comparison since errors may be wrapped.
var (
	// ErrPartialFailure indicates a multi-side schedule request where
	// some sides committed and others failed. Per-side errors are
	// preserved in the ScheduleResult.
	ErrPartialFailure = errors.New("engine: partial failure")

	// ErrTargetMismatch indicates a command addressed to the wrong
	// target kind, such as a side command sent to the pod device ID.
	ErrTargetMismatch = errors.New("engine: command target mismatch")
)
