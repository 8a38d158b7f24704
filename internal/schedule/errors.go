package schedule

import "errors"

// Sentinel errors for the schedule package. Callers should use
// errors.Is for comparison since errors may be wrapped.
var (
	// ErrInvalidWeekday indicates a weekday token outside monday..sunday.
	ErrInvalidWeekday = errors.New("schedule: invalid weekday")

	// ErrInvalidTime indicates a time-of-day not in zero-padded "HH:MM" form.
	ErrInvalidTime = errors.New("schedule: invalid time of day")

	// ErrInvalidFragment indicates a fragment that fails structural
	// validation (unordered or duplicate temperature times, values
	// outside the configured bounds).
	ErrInvalidFragment = errors.New("schedule: invalid fragment")
)
