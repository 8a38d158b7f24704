package schedule

import (
	"fmt"
	"strings"
)

// NumWeekdays is the number of days in a week.
const NumWeekdays = 7

// Weekday is a day index, Monday = 0 through Sunday = 6.
type Weekday int

// Weekday indices.
const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// weekdayNames maps index to canonical lowercase token.
var weekdayNames = [NumWeekdays]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// String returns the canonical lowercase token for the weekday.
func (d Weekday) String() string {
	if d < 0 || d >= NumWeekdays {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Valid reports whether d is within Monday..Sunday.
func (d Weekday) Valid() bool {
	return d >= 0 && d < NumWeekdays
}

// ParseWeekday converts a token (case-insensitive) to a Weekday.
func ParseWeekday(token string) (Weekday, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	for i, name := range weekdayNames {
		if t == name {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, token)
}

// WeekdaySet is a set of weekdays, stored as a bitmask.
type WeekdaySet uint8

// allWeekdaysMask has the low seven bits set.
const allWeekdaysMask WeekdaySet = 1<<NumWeekdays - 1

// AllWeekdays returns the set containing every weekday.
func AllWeekdays() WeekdaySet {
	return allWeekdaysMask
}

// Add returns the set with d added.
func (s WeekdaySet) Add(d Weekday) WeekdaySet {
	return s | 1<<uint(d)
}

// Contains reports whether d is in the set.
func (s WeekdaySet) Contains(d Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Len returns the number of weekdays in the set.
func (s WeekdaySet) Len() int {
	n := 0
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			n++
		}
	}
	return n
}

// Days returns the set's members in Monday-first order.
func (s WeekdaySet) Days() []Weekday {
	days := make([]Weekday, 0, NumWeekdays)
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// ExpandWeekdays resolves an optional weekday selector to a concrete set.
//
// A nil or empty selector expands to all seven weekdays, mirroring the
// "apply to every day" service semantics. Tokens are validated
// case-insensitively against monday..sunday; duplicates collapse.
//
// Returns:
//   - WeekdaySet: The expanded set
//   - error: ErrInvalidWeekday for any unrecognised token
func ExpandWeekdays(tokens []string) (WeekdaySet, error) {
	if len(tokens) == 0 {
		return AllWeekdays(), nil
	}

	var set WeekdaySet
	for _, token := range tokens {
		d, err := ParseWeekday(token)
		if err != nil {
			return 0, err
		}
		set = set.Add(d)
	}
	return set, nil
}
