package schedule

import "fmt"

// Fragment is a partial day schedule to be merged onto existing days.
//
// A nil Power or Alarm, and a nil Temperatures list, mean "leave the
// stored value alone". An empty (non-nil) Temperatures list explicitly
// clears the stored list.
type Fragment struct {
	Power        *PowerSchedule
	Temperatures []TemperaturePoint
	Alarm        *AlarmSchedule
}

// Bounds is the accepted temperature envelope in whole °F.
type Bounds struct {
	MinF int
	MaxF int
}

// Contains reports whether t falls inside the inclusive envelope.
func (b Bounds) Contains(t int) bool {
	return t >= b.MinF && t <= b.MaxF
}

// IsZero reports whether the fragment would change nothing.
func (f Fragment) IsZero() bool {
	return f.Power == nil && f.Alarm == nil && f.Temperatures == nil
}

// Validate checks the fragment's structural invariants: well-formed
// times, temperature points ordered ascending with no duplicate times,
// and all temperatures inside the configured bounds.
//
// Returns:
//   - error: ErrInvalidFragment (wrapped with detail), or nil
func (f Fragment) Validate(bounds Bounds) error {
	if f.Power != nil {
		if !f.Power.On.Valid() {
			return fmt.Errorf("%w: power.on time %q", ErrInvalidFragment, f.Power.On)
		}
		if f.Power.OnTemperature != nil && !bounds.Contains(*f.Power.OnTemperature) {
			return fmt.Errorf("%w: power.on_temperature %d outside %d..%d °F",
				ErrInvalidFragment, *f.Power.OnTemperature, bounds.MinF, bounds.MaxF)
		}
	}

	if f.Alarm != nil {
		if !f.Alarm.Time.Valid() {
			return fmt.Errorf("%w: alarm.time %q", ErrInvalidFragment, f.Alarm.Time)
		}
		if f.Alarm.AlarmTemperature != nil && !bounds.Contains(*f.Alarm.AlarmTemperature) {
			return fmt.Errorf("%w: alarm.alarm_temperature %d outside %d..%d °F",
				ErrInvalidFragment, *f.Alarm.AlarmTemperature, bounds.MinF, bounds.MaxF)
		}
	}

	for i, p := range f.Temperatures {
		if !p.Time.Valid() {
			return fmt.Errorf("%w: temperatures[%d].time %q", ErrInvalidFragment, i, p.Time)
		}
		if !bounds.Contains(p.Temperature) {
			return fmt.Errorf("%w: temperatures[%d] %d outside %d..%d °F",
				ErrInvalidFragment, i, p.Temperature, bounds.MinF, bounds.MaxF)
		}
		if i > 0 && !f.Temperatures[i-1].Time.Before(p.Time) {
			return fmt.Errorf("%w: temperatures must be ordered ascending with unique times (%q then %q)",
				ErrInvalidFragment, f.Temperatures[i-1].Time, p.Time)
		}
	}

	return nil
}

// Clone returns a deep copy of the fragment.
func (f Fragment) Clone() Fragment {
	out := Fragment{
		Power: f.Power.Clone(),
		Alarm: f.Alarm.Clone(),
	}
	if f.Temperatures != nil {
		out.Temperatures = make([]TemperaturePoint, len(f.Temperatures))
		copy(out.Temperatures, f.Temperatures)
	}
	return out
}

// Merge applies frag onto every day in days and returns the resulting
// week. Days outside the set are returned unchanged.
//
// Field-level replace semantics: a power or alarm block present in the
// fragment replaces the stored block wholesale; a non-nil temperatures
// list replaces the whole stored list; absent fields keep their stored
// values. Merge is pure (the input week is not mutated) and idempotent.
func Merge(existing WeeklySchedule, frag Fragment, days WeekdaySet) WeeklySchedule {
	out := existing.Clone()
	for _, d := range days.Days() {
		out[d] = mergeDay(out[d], frag)
	}
	return out
}

// mergeDay applies the fragment to a single day.
func mergeDay(day DaySchedule, frag Fragment) DaySchedule {
	if frag.Power != nil {
		day.Power = frag.Power.Clone()
	}
	if frag.Temperatures != nil {
		day.Temperatures = make([]TemperaturePoint, len(frag.Temperatures))
		copy(day.Temperatures, frag.Temperatures)
	}
	if frag.Alarm != nil {
		day.Alarm = frag.Alarm.Clone()
	}
	return day
}
