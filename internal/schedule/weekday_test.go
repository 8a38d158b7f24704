package schedule

import (
	"errors"
	"testing"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Weekday
		wantErr bool
	}{
		{name: "monday", input: "monday", want: Monday},
		{name: "sunday", input: "sunday", want: Sunday},
		{name: "mixed case", input: "WedNesDay", want: Wednesday},
		{name: "whitespace trimmed", input: " friday ", want: Friday},
		{name: "abbreviation rejected", input: "mon", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWeekday) {
					t.Fatalf("ParseWeekday(%q) error = %v, want ErrInvalidWeekday", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWeekday(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandWeekdays_Default(t *testing.T) {
	// An absent selector must equal all seven tokens spelled out.
	fromNil, err := ExpandWeekdays(nil)
	if err != nil {
		t.Fatalf("ExpandWeekdays(nil) error = %v", err)
	}

	explicit, err := ExpandWeekdays([]string{
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	})
	if err != nil {
		t.Fatalf("ExpandWeekdays(all tokens) error = %v", err)
	}

	if fromNil != explicit {
		t.Errorf("ExpandWeekdays(nil) = %b, explicit all-seven = %b", fromNil, explicit)
	}
	if fromNil.Len() != NumWeekdays {
		t.Errorf("ExpandWeekdays(nil).Len() = %d, want %d", fromNil.Len(), NumWeekdays)
	}

	empty, err := ExpandWeekdays([]string{})
	if err != nil {
		t.Fatalf("ExpandWeekdays(empty) error = %v", err)
	}
	if empty != AllWeekdays() {
		t.Error("ExpandWeekdays(empty) should expand to all weekdays")
	}
}

func TestExpandWeekdays_DuplicatesCollapse(t *testing.T) {
	set, err := ExpandWeekdays([]string{"monday", "Monday", "MONDAY", "friday"})
	if err != nil {
		t.Fatalf("ExpandWeekdays() error = %v", err)
	}

	if set.Len() != 2 {
		t.Errorf("set.Len() = %d, want 2", set.Len())
	}
	if !set.Contains(Monday) || !set.Contains(Friday) {
		t.Error("set should contain monday and friday")
	}
	if set.Contains(Tuesday) {
		t.Error("set should not contain tuesday")
	}
}

func TestExpandWeekdays_InvalidToken(t *testing.T) {
	_, err := ExpandWeekdays([]string{"monday", "funday"})
	if !errors.Is(err, ErrInvalidWeekday) {
		t.Errorf("ExpandWeekdays() error = %v, want ErrInvalidWeekday", err)
	}
}

func TestWeekdaySet_Days(t *testing.T) {
	set := WeekdaySet(0).Add(Sunday).Add(Monday).Add(Wednesday)

	days := set.Days()
	want := []Weekday{Monday, Wednesday, Sunday}
	if len(days) != len(want) {
		t.Fatalf("Days() = %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("Days()[%d] = %v, want %v", i, days[i], want[i])
		}
	}
}
