package schedule

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// timeOfDayPattern matches zero-padded 24-hour "HH:MM".
var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// TimeOfDay is a zero-padded 24-hour clock time ("HH:MM").
//
// The zero-padded form makes lexicographic comparison equal to
// chronological comparison, which the merge validation relies on.
type TimeOfDay string

// ParseTimeOfDay validates a time-of-day token.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if !timeOfDayPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return TimeOfDay(s), nil
}

// Valid reports whether t is a well-formed "HH:MM" time.
func (t TimeOfDay) Valid() bool {
	return timeOfDayPattern.MatchString(string(t))
}

// Before reports whether t is chronologically before other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// TemperaturePoint is one scheduled temperature change.
// Temperature is whole degrees Fahrenheit.
type TemperaturePoint struct {
	Time        TimeOfDay `json:"time"`
	Temperature int       `json:"temperature"`
}

// PowerSchedule describes when a side turns on for the night.
type PowerSchedule struct {
	// On is the time the side powers on.
	On TimeOfDay `json:"on"`

	// OnTemperature, when set, is the initial target in °F.
	OnTemperature *int `json:"on_temperature,omitempty"`
}

// Clone returns a deep copy.
func (p *PowerSchedule) Clone() *PowerSchedule {
	if p == nil {
		return nil
	}
	out := *p
	if p.OnTemperature != nil {
		v := *p.OnTemperature
		out.OnTemperature = &v
	}
	return &out
}

// AlarmSchedule describes the vibration/thermal wake alarm.
type AlarmSchedule struct {
	Time    TimeOfDay `json:"time"`
	Enabled bool      `json:"enabled"`

	// AlarmTemperature, when set, is the wake-up target in °F.
	AlarmTemperature *int `json:"alarm_temperature,omitempty"`
}

// Clone returns a deep copy.
func (a *AlarmSchedule) Clone() *AlarmSchedule {
	if a == nil {
		return nil
	}
	out := *a
	if a.AlarmTemperature != nil {
		v := *a.AlarmTemperature
		out.AlarmTemperature = &v
	}
	return &out
}

// DaySchedule is one weekday's worth of schedule for one side.
//
// Nil sub-objects and a nil temperatures list mean "nothing scheduled",
// which is the lazily-created default.
type DaySchedule struct {
	Power        *PowerSchedule     `json:"power,omitempty"`
	Temperatures []TemperaturePoint `json:"temperatures,omitempty"`
	Alarm        *AlarmSchedule     `json:"alarm,omitempty"`
}

// Clone returns a deep copy.
func (d DaySchedule) Clone() DaySchedule {
	out := DaySchedule{
		Power: d.Power.Clone(),
		Alarm: d.Alarm.Clone(),
	}
	if d.Temperatures != nil {
		out.Temperatures = make([]TemperaturePoint, len(d.Temperatures))
		copy(out.Temperatures, d.Temperatures)
	}
	return out
}

// IsZero reports whether the day has nothing scheduled.
func (d DaySchedule) IsZero() bool {
	return d.Power == nil && d.Alarm == nil && len(d.Temperatures) == 0
}

// WeeklySchedule is the full week for one side, Monday (0) to Sunday (6).
// The zero value is a valid, empty week.
type WeeklySchedule [NumWeekdays]DaySchedule

// Clone returns a deep copy.
func (w WeeklySchedule) Clone() WeeklySchedule {
	var out WeeklySchedule
	for i := range w {
		out[i] = w[i].Clone()
	}
	return out
}

// MarshalJSON encodes the week as a weekday-name keyed object, with
// empty days omitted.
func (w WeeklySchedule) MarshalJSON() ([]byte, error) {
	out := make(map[string]DaySchedule, NumWeekdays)
	for d := Monday; d <= Sunday; d++ {
		if !w[d].IsZero() {
			out[d.String()] = w[d]
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the weekday-name keyed form produced by
// MarshalJSON. Unknown keys are rejected.
func (w *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var raw map[string]DaySchedule
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out WeeklySchedule
	for name, day := range raw {
		d, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		out[d] = day
	}
	*w = out
	return nil
}
