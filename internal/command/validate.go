package command

import (
	"fmt"
	"math"

	"github.com/awender/podlink/internal/schedule"
)

// Validated is a dispatch-ready command.
//
// Exactly one of the value fields is meaningful, determined by
// Spec.Value. A Validated is only ever produced by Validate, so
// downstream code can rely on the value being present and in range.
type Validated struct {
	Spec Spec

	Bool bool
	Int  int
	Time schedule.TimeOfDay
}

// Name returns the command name.
func (v Validated) Name() string {
	return v.Spec.Name
}

// Validate checks a raw name/value pair against the registry.
//
// Accepted value representations follow JSON decoding: booleans,
// numbers (float64 or int), and strings for time-of-day values. A nil
// value means "no value supplied".
//
// Returns:
//   - Validated: The dispatch-ready command
//   - error: ErrUnknownCommand, ErrMissingValue, ErrUnexpectedValue,
//     or ErrValueOutOfRange
func (r *Registry) Validate(name string, value any) (Validated, error) {
	spec, ok := r.Lookup(name)
	if !ok {
		return Validated{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	out := Validated{Spec: spec}

	switch spec.Value {
	case ValueNone:
		if value != nil {
			return Validated{}, fmt.Errorf("%w: %s takes no value", ErrUnexpectedValue, name)
		}

	case ValueBool:
		if value == nil {
			return Validated{}, fmt.Errorf("%w: %s requires a boolean", ErrMissingValue, name)
		}
		b, ok := value.(bool)
		if !ok {
			return Validated{}, fmt.Errorf("%w: %s requires a boolean, got %T", ErrUnexpectedValue, name, value)
		}
		out.Bool = b

	case ValueInt:
		if value == nil {
			return Validated{}, fmt.Errorf("%w: %s requires an integer", ErrMissingValue, name)
		}
		n, err := toInt(value)
		if err != nil {
			return Validated{}, fmt.Errorf("%w: %s requires an integer, got %T", ErrUnexpectedValue, name, value)
		}
		if spec.Range != nil && !spec.Range.Contains(n) {
			return Validated{}, fmt.Errorf("%w: %s value %d outside %d..%d",
				ErrValueOutOfRange, name, n, spec.Range.Min, spec.Range.Max)
		}
		out.Int = n

	case ValueTimeOfDay:
		if value == nil {
			return Validated{}, fmt.Errorf("%w: %s requires a time of day", ErrMissingValue, name)
		}
		s, ok := value.(string)
		if !ok {
			return Validated{}, fmt.Errorf("%w: %s requires an HH:MM string, got %T", ErrUnexpectedValue, name, value)
		}
		t, err := schedule.ParseTimeOfDay(s)
		if err != nil {
			return Validated{}, fmt.Errorf("%w: %s: %v", ErrUnexpectedValue, name, err)
		}
		out.Time = t
	}

	return out, nil
}

// toInt converts JSON-decoded numeric representations to int.
// Fractional float values are rejected rather than truncated.
func toInt(value any) (int, error) {
	switch n := value.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("not a whole number: %v", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("not a number: %T", value)
	}
}
